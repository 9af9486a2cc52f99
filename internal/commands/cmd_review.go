package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/git"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/internal/core/syntax"
	"github.com/andrewleech/git-review/internal/review"
	"github.com/andrewleech/git-review/internal/tui"
	"github.com/andrewleech/git-review/pkg/executil"
	"github.com/andrewleech/git-review/pkg/profiler"
)

// ErrBaseAndRange is returned when both --base and --range are given.
var ErrBaseAndRange = errors.New("--base and --range cannot be used together")

type ReviewCmd struct {
	flags        *Flags
	base         string
	rng          string
	context      int
	profilerPort int
}

// NewReviewCmd creates the review command, which is the default action.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Flags returns the review flags for registration on the root command.
func (cmd *ReviewCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "base",
			Aliases:     []string{"b"},
			Usage:       "base branch to compare against (default: detected main/master)",
			Destination: &cmd.base,
		},
		&cli.StringFlag{
			Name:        "range",
			Aliases:     []string{"r"},
			Usage:       "commit range to review, e.g. HEAD~3..HEAD",
			Destination: &cmd.rng,
		},
		&cli.IntFlag{
			Name:        "context",
			Usage:       "lines of context around changes (default from config)",
			Destination: &cmd.context,
		},
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "serve pprof on 127.0.0.1:<port> while the review runs (0 disables)",
			Sources:     cli.EnvVars("GIT_REVIEW_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Run executes the review TUI. Exported for use as default command.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.base != "" && cmd.rng != "" {
		return ErrBaseAndRange
	}

	ctx, repo, err := openRepo(ctx, cmd.flags, &executil.RealExecutor{})
	if err != nil {
		return err
	}

	commits, base, err := cmd.commits(ctx, repo)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		_, _ = fmt.Fprintf(c.Root().Writer, "No commits to review between %s and HEAD\n", base)
		return nil
	}

	cfg := cmd.flags.Config
	display := cfg.Display
	if c.IsSet("context") {
		if cmd.context < 0 {
			return fmt.Errorf("--context cannot be negative")
		}
		display.ContextLines = cmd.context
	}

	session, err := review.New(repo.git, review.Options{
		Branch:  repo.branch,
		Base:    base,
		Commits: commits,
		Display: display,
	})
	if err != nil {
		return fmt.Errorf("start review of %s: %w", repo.branch, err)
	}
	session.Open(ctx)

	log := logging.Component("commands")
	log.Info().Ctx(ctx).
		Str("branch", repo.branch).
		Str("base", base).
		Int("commits", len(commits)).
		Msg("starting review")

	if cmd.profilerPort > 0 {
		stop, err := startProfiler(cmd.profilerPort)
		if err != nil {
			return err
		}
		defer stop()
	}

	m := tui.New(ctx, session, tui.Options{
		Highlighter:     syntax.New(display.SyntaxTheme),
		ShowLineNumbers: cfg.UI.ShowLineNumbers,
		LogPaneRatio:    cfg.UI.LogPaneWidthRatio,
		SaveMode:        cmd.saveMode,
	})

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}
	return nil
}

// startProfiler serves pprof on port until the returned stop func is called.
func startProfiler(port int) (func(), error) {
	log := logging.Component("profiler")
	prof := profiler.New(port, log)
	if err := prof.Start(); err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := prof.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to shut down profiler")
		}
	}, nil
}

// commits lists the commits under review and describes what they are
// compared against.
func (cmd *ReviewCmd) commits(ctx context.Context, repo repository) ([]git.Commit, string, error) {
	if cmd.rng != "" {
		from, to, err := git.ParseRange(cmd.rng)
		if err != nil {
			return nil, "", err
		}
		for _, ref := range []string{from, to} {
			if err := mustResolve(ctx, repo, ref); err != nil {
				return nil, "", err
			}
		}
		commits, err := repo.git.ListCommitsRange(ctx, from, to)
		if err != nil {
			return nil, "", fmt.Errorf("list commits in %s: %w", cmd.rng, err)
		}
		return commits, from, nil
	}

	base := cmd.base
	if base == "" {
		detected, err := repo.git.DetectBaseBranch(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("%w; use --base or --range", err)
		}
		base = detected
	}
	if err := mustResolve(ctx, repo, base); err != nil {
		return nil, "", err
	}

	commits, err := repo.git.ListCommits(ctx, base)
	if err != nil {
		return nil, "", fmt.Errorf("list commits since %s: %w", base, err)
	}
	return commits, base, nil
}

func mustResolve(ctx context.Context, repo repository, ref string) error {
	_, ok, err := repo.git.ResolveRef(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown revision %q", ref)
	}
	return nil
}

// saveMode persists the diff mode chosen in the TUI.
func (cmd *ReviewCmd) saveMode(mode config.DiffMode) error {
	cmd.flags.Config.Display.DiffMode = mode
	return cmd.flags.Config.Save(cmd.flags.ConfigPath)
}
