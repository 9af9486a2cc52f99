package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewleech/git-review/pkg/executil"
)

// Executor runs git commands against one repository.
type Executor struct {
	gitPath string
	dir     string
	exec    executil.Executor
}

// NewExecutor creates a git executor for the repository containing dir,
// using the git binary at gitPath. An empty dir uses the working directory.
func NewExecutor(gitPath, dir string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, dir: dir, exec: exec}
}

func (e *Executor) run(ctx context.Context, args ...string) ([]byte, error) {
	return e.exec.RunDir(ctx, e.dir, e.gitPath, args...)
}

// RepoRoot returns the top-level directory of the repository.
func (e *Executor) RepoRoot(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveRef resolves ref to a commit id. It returns false without error
// when ref does not name a commit.
func (e *Executor) ResolveRef(ctx context.Context, ref string) (string, bool, error) {
	out, err := e.run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if executil.ExitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("git rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(string(out)), true, nil
}

// CurrentBranch returns the checked out branch. A detached HEAD is named
// "detached-" followed by the short commit id.
func (e *Executor) CurrentBranch(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("git branch: %w", err)
	}

	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	// Empty branch name means detached HEAD
	id, ok, err := e.ResolveRef(ctx, "HEAD")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("git branch: HEAD does not point to a commit")
	}
	return "detached-" + ShortID(id), nil
}

// DetectBaseBranch finds the branch the current work is based on. main and
// master are tried in turn, preferring their upstream when one is
// configured, then origin/main and origin/master.
func (e *Executor) DetectBaseBranch(ctx context.Context) (string, error) {
	for _, local := range []string{"main", "master"} {
		if _, ok, err := e.ResolveRef(ctx, "refs/heads/"+local); err != nil {
			return "", err
		} else if !ok {
			continue
		}

		if upstream, ok := e.upstream(ctx, local); ok {
			return upstream, nil
		}
		return local, nil
	}

	for _, remote := range []string{"origin/main", "origin/master"} {
		_, ok, err := e.ResolveRef(ctx, remote)
		if err != nil {
			return "", err
		}
		if ok {
			return remote, nil
		}
	}

	return "", ErrNoBaseBranch
}

// upstream returns the resolvable upstream of a local branch.
func (e *Executor) upstream(ctx context.Context, branch string) (string, bool) {
	out, err := e.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return "", false
	}
	if _, ok, err := e.ResolveRef(ctx, name); err != nil || !ok {
		return "", false
	}
	return name, true
}
