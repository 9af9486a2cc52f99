package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/export"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/internal/tui/jsoncolor"
	"github.com/andrewleech/git-review/pkg/executil"
	"github.com/andrewleech/git-review/pkg/iojson"
)

type ExportCmd struct {
	flags  *Flags
	exec   executil.Executor
	format string
	output string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags, exec: &executil.RealExecutor{}}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export the review comments of the current branch",
		UsageText: "git-review export [--format markdown|json] [--output file]",
		Description: `Prints every comment stored for the current branch, grouped by commit and file.

Output printed to a terminal is rendered (markdown) or colored (json); it is
written raw when piped or saved with --output.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (markdown, json)",
				Value:       string(export.FormatMarkdown),
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	return cmd.export(ctx, c.Root().Writer, c.Root().ErrWriter)
}

func (cmd *ExportCmd) export(ctx context.Context, stdout, stderr io.Writer) error {
	format, err := export.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	ctx, repo, err := openRepo(ctx, cmd.flags, cmd.exec)
	if err != nil {
		return err
	}

	store := comments.NewStore(repo.git, logging.Component("export"))
	list, err := store.ListForBranch(ctx, repo.branch)
	if err != nil {
		return fmt.Errorf("load comments for %s: %w", repo.branch, err)
	}

	opts := export.Options{
		Branch:   repo.branch,
		Messages: commitMessages(ctx, repo),
		Now:      time.Now(),
	}

	w := stdout
	if cmd.output != "" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", cmd.output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch format {
	case export.FormatJSON:
		doc := export.Document(list, opts)
		if _, ok := terminalWidth(w); !ok {
			if err := iojson.WriteWith(w, stderr, doc); err != nil {
				return err
			}
			break
		}
		data, err := iojson.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		if _, err := fmt.Fprintln(w, jsoncolor.Colorize(data, jsoncolor.PaletteTheme())); err != nil {
			return err
		}
	default:
		md := export.Markdown(list, opts)
		if width, ok := terminalWidth(w); ok {
			md = renderMarkdown(md, width)
		}
		if _, err := io.WriteString(w, md); err != nil {
			return err
		}
	}

	if cmd.output != "" {
		_, _ = fmt.Fprintf(stdout, "Exported comments on %d commit(s) to %s\n", len(list), cmd.output)
	}
	return nil
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	log := logging.Component("export")
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, printing raw")
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, printing raw")
		return md
	}
	return out
}
