package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/pkg/executil"
)

// ErrNeedsConfirmation is returned when clearing would need a prompt but
// stdin is not a terminal.
var ErrNeedsConfirmation = errors.New("refusing to clear comments without confirmation; pass --yes")

type ClearCmd struct {
	flags   *Flags
	exec    executil.Executor
	yes     bool
	confirm func(branch string, n int) (bool, error)
}

// NewClearCmd creates a new clear command.
func NewClearCmd(flags *Flags) *ClearCmd {
	return &ClearCmd{flags: flags, exec: &executil.RealExecutor{}, confirm: promptClear}
}

// Register adds the clear command to the application.
func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clear",
		Usage:     "Delete every review comment of the current branch",
		UsageText: "git-review clear [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ClearCmd) run(ctx context.Context, c *cli.Command) error {
	return cmd.clear(ctx, c.Root().Writer)
}

func (cmd *ClearCmd) clear(ctx context.Context, out io.Writer) error {
	ctx, repo, err := openRepo(ctx, cmd.flags, cmd.exec)
	if err != nil {
		return err
	}

	ref, err := comments.NotesRef(repo.branch)
	if err != nil {
		return err
	}

	noted, err := repo.git.ListNotedCommits(ctx, ref)
	if err != nil {
		return fmt.Errorf("list comments for %s: %w", repo.branch, err)
	}
	if len(noted) == 0 {
		_, _ = fmt.Fprintf(out, "No comments stored for branch %s\n", repo.branch)
		return nil
	}

	if !cmd.yes {
		ok, err := cmd.confirm(repo.branch, len(noted))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Clear cancelled")
			return nil
		}
	}

	store := comments.NewStore(repo.git, logging.Component("clear"))
	n, err := store.Clear(ctx, repo.branch)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, styles.SuccessStyle.Render(
		fmt.Sprintf("Deleted comments on %d commit(s) for branch %s", n, repo.branch)))
	return nil
}

func promptClear(branch string, n int) (bool, error) {
	if !stdinIsTerminal() {
		return false, ErrNeedsConfirmation
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete all review comments for %s?", branch)).
		Description(fmt.Sprintf("%d commit(s) have comments. This cannot be undone.", n)).
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
