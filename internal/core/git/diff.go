package git

import (
	"context"
	"fmt"
	"strconv"
)

// GenerateDiff returns the patch a commit introduces against its first
// parent, with contextLines lines of context around each change. A root
// commit is diffed against the empty tree.
func (e *Executor) GenerateDiff(ctx context.Context, commit string, contextLines int) ([]byte, error) {
	if contextLines < 0 {
		contextLines = 0
	}

	out, err := e.run(ctx,
		"diff-tree",
		"-p",
		"--root",
		"--no-color",
		"--no-ext-diff",
		"--no-commit-id",
		"-m",
		"--first-parent",
		"-U"+strconv.Itoa(contextLines),
		commit,
	)
	if err != nil {
		return nil, fmt.Errorf("git diff-tree %s: %w", ShortID(commit), err)
	}
	return out, nil
}
