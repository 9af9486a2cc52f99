package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/andrewleech/git-review/internal/commands"
	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	var (
		reviewCmd   = commands.NewReviewCmd(flags)
		exportCmd   = commands.NewExportCmd(flags)
		clearCmd    = commands.NewClearCmd(flags)
		legacy      = commands.NewLegacyFlags(exportCmd, clearCmd)
		validateCmd = commands.NewConfigValidateCmd(flags)
	)

	app := &cli.Command{
		Name:      "git-review",
		Usage:     "Review the commits of a branch in the terminal",
		UsageText: "git-review [global options] [command [command options]]",
		Description: `git-review walks the commits between a base branch and HEAD, one diff at a time,
in a side-by-side or inline view.

Comments made on lines, hunks, or files are stored as git notes under
refs/notes/git-review/<branch>, so they travel with the repository and can be
exported as Markdown or JSON.

Run 'git-review' with no arguments to review the current branch against main
or master.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("GIT_REVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("GIT_REVIEW_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("GIT_REVIEW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"C"},
				Usage:       "path inside the repository to review",
				Value:       ".",
				Destination: &flags.RepoPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// The TUI owns the terminal, so logs always go to a file.
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			if palette, ok := styles.GetPalette(cfg.UI.Theme); ok {
				styles.SetTheme(palette)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = exportCmd.Register(app)
	app = clearCmd.Register(app)
	app = validateCmd.Register(app)

	// Register review and legacy flags on root command
	app.Flags = append(app.Flags, reviewCmd.Flags()...)
	app.Flags = append(app.Flags, legacy.Flags()...)

	// Review is the default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'git-review --help' for usage", c.Args().First())
		}
		if legacy.Requested() {
			return legacy.Run(ctx, c)
		}
		return reviewCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
