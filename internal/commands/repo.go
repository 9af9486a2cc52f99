package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/andrewleech/git-review/internal/core/git"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/pkg/executil"
)

// repository is the git repository a command works on.
type repository struct {
	git    *git.Executor
	root   string
	branch string
}

// openRepo resolves the repository containing flags.RepoPath and its
// checked out branch. The returned context carries the repository root for
// logging.
func openRepo(ctx context.Context, flags *Flags, exec executil.Executor) (context.Context, repository, error) {
	probe := git.NewExecutor(flags.Config.GitPath, flags.RepoPath, exec)
	root, err := probe.RepoRoot(ctx)
	if err != nil {
		return ctx, repository{}, fmt.Errorf("%s: %w", flags.RepoPath, err)
	}

	ctx = logging.WithRepo(ctx, root)
	g := git.NewExecutor(flags.Config.GitPath, root, exec)

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		return ctx, repository{}, fmt.Errorf("determine current branch: %w", err)
	}

	return ctx, repository{git: g, root: root, branch: branch}, nil
}

// commitMessages returns the messages of the commits between the base
// branch and HEAD, keyed by commit id. It is best effort: without a base
// branch the map is empty.
func commitMessages(ctx context.Context, repo repository) map[string]string {
	log := logging.Component("commands")

	base, err := repo.git.DetectBaseBranch(ctx)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("no base branch for commit messages")
		return nil
	}

	commits, err := repo.git.ListCommits(ctx, base)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("list commits for messages")
		return nil
	}

	out := make(map[string]string, len(commits))
	for _, c := range commits {
		out[c.ID] = c.Message
	}
	return out
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}

// stdinIsTerminal reports whether prompts can be shown.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
