package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewleech/git-review/pkg/executil"
)

// ReadNote returns the note attached to commit under ref. It returns false
// without error when the commit has no note.
func (e *Executor) ReadNote(ctx context.Context, ref, commit string) (string, bool, error) {
	out, err := e.run(ctx, "notes", "--ref="+ref, "show", commit)
	if err != nil {
		if executil.ExitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("git notes show %s: %w", ShortID(commit), err)
	}
	return string(out), true, nil
}

// WriteNote attaches text to commit under ref, replacing any existing note.
func (e *Executor) WriteNote(ctx context.Context, ref, commit, text string) error {
	_, err := e.exec.RunDirInput(ctx, e.dir, strings.NewReader(text), e.gitPath,
		"notes", "--ref="+ref, "add", "-f", "-F", "-", commit)
	if err != nil {
		return fmt.Errorf("git notes add %s: %w", ShortID(commit), err)
	}
	return nil
}

// DeleteNote removes the note on commit under ref and reports whether one
// existed.
func (e *Executor) DeleteNote(ctx context.Context, ref, commit string) (bool, error) {
	_, err := e.run(ctx, "notes", "--ref="+ref, "list", commit)
	if err != nil {
		if executil.ExitCode(err) == 1 {
			return false, nil
		}
		return false, fmt.Errorf("git notes list %s: %w", ShortID(commit), err)
	}

	if _, err := e.run(ctx, "notes", "--ref="+ref, "remove", "--ignore-missing", commit); err != nil {
		return false, fmt.Errorf("git notes remove %s: %w", ShortID(commit), err)
	}
	return true, nil
}

// ListNotedCommits returns the commits with a note under ref. A ref that
// does not exist has no notes.
func (e *Executor) ListNotedCommits(ctx context.Context, ref string) ([]string, error) {
	out, err := e.run(ctx, "notes", "--ref="+ref, "list")
	if err != nil {
		return nil, fmt.Errorf("git notes list: %w", err)
	}

	var commits []string
	for line := range strings.Lines(string(out)) {
		// "<note object> <annotated commit>"
		fields := strings.Fields(line)
		if len(fields) == 2 {
			commits = append(commits, fields[1])
		}
	}
	return commits, nil
}

// DeleteNamespace removes every note under ref and returns how many were
// removed.
func (e *Executor) DeleteNamespace(ctx context.Context, ref string) (int, error) {
	commits, err := e.ListNotedCommits(ctx, ref)
	if err != nil {
		return 0, err
	}
	if len(commits) == 0 {
		return 0, nil
	}

	args := append([]string{"notes", "--ref=" + ref, "remove", "--ignore-missing"}, commits...)
	if _, err := e.run(ctx, args...); err != nil {
		return 0, fmt.Errorf("git notes remove: %w", err)
	}
	return len(commits), nil
}
