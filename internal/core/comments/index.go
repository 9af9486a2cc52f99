package comments

import (
	"context"
	"fmt"
	"time"
)

// Entry is a comment as shown in the comment viewer. Index is the
// comment's position among the comments of its file, which is what Delete
// expects.
type Entry struct {
	Index   int
	Comment Comment
}

// Index is the in-memory view of the comments of one branch. Every change
// is persisted before it becomes visible; a failed write leaves the index
// as it was.
type Index struct {
	store    *Store
	branch   string
	byCommit map[string]*CommitComments
	now      func() time.Time
}

// NewIndex returns an empty index for branch.
func NewIndex(store *Store, branch string) (*Index, error) {
	if _, err := NotesRef(branch); err != nil {
		return nil, err
	}
	return &Index{
		store:    store,
		branch:   branch,
		byCommit: make(map[string]*CommitComments),
		now:      time.Now,
	}, nil
}

func (ix *Index) Branch() string {
	return ix.branch
}

// Load reads the stored comments of every commit in commits that has any.
// Unreadable notes are logged and skipped.
func (ix *Index) Load(ctx context.Context, commits []string) error {
	ref, err := NotesRef(ix.branch)
	if err != nil {
		return err
	}

	noted, err := ix.store.notes.ListNotedCommits(ctx, ref)
	if err != nil {
		return fmt.Errorf("list notes under %s: %w", ref, err)
	}

	has := make(map[string]bool, len(noted))
	for _, c := range noted {
		has[c] = true
	}

	loaded := make(map[string]*CommitComments)
	for _, commit := range commits {
		if !has[commit] {
			continue
		}
		cc, ok, err := ix.store.Read(ctx, commit, ix.branch)
		if err != nil {
			ix.store.log.Warn().Err(err).Str("commit", commit).Msg("skipping unreadable comments")
			continue
		}
		if ok {
			loaded[commit] = cc
		}
	}

	ix.byCommit = loaded
	return nil
}

// ForCommit returns the comments of commit, or nil when it has none.
func (ix *Index) ForCommit(commit string) *CommitComments {
	return ix.byCommit[commit]
}

// Count returns the number of comments on commit.
func (ix *Index) Count(commit string) int {
	if cc := ix.byCommit[commit]; cc != nil {
		return len(cc.Comments)
	}
	return 0
}

// Total returns the number of comments across all loaded commits.
func (ix *Index) Total() int {
	n := 0
	for _, cc := range ix.byCommit {
		n += len(cc.Comments)
	}
	return n
}

// Add appends c to the comments of commit and persists the collection.
func (ix *Index) Add(ctx context.Context, commit string, c Comment) error {
	var next *CommitComments
	if cur := ix.byCommit[commit]; cur != nil {
		next = cur.Clone()
	} else {
		next = NewCommitComments(commit, ix.branch, ix.now())
	}
	next.Add(c)

	if err := ix.store.Write(ctx, next); err != nil {
		return err
	}
	ix.byCommit[commit] = next
	return nil
}

// View returns the comments relevant to target on commit: line comments at
// the target line, hunk comments on the target's hunk, then every
// file-level comment of the file.
func (ix *Index) View(commit string, target Target) []Entry {
	cc := ix.byCommit[commit]
	if cc == nil || !target.HasFile() {
		return nil
	}

	var lines, hunks, files []Entry
	for display, abs := range cc.FileIndices(target.Path) {
		c := cc.Comments[abs]
		e := Entry{Index: display, Comment: c}
		switch c.Location.Kind {
		case LevelLine:
			if target.Level == LevelLine &&
				c.Location.Number == target.Location.Number &&
				c.Location.Side == target.Location.Side {
				lines = append(lines, e)
			}
		case LevelHunk:
			if target.HunkHeader != "" && c.Location.Header == target.HunkHeader {
				hunks = append(hunks, e)
			}
		case LevelFile:
			files = append(files, e)
		}
	}

	out := append(lines, hunks...)
	return append(out, files...)
}

// Delete removes the comment shown at displayIndex among the comments of
// path. It returns false without error when there is no such comment.
// Removing the last comment of a commit deletes its note.
func (ix *Index) Delete(ctx context.Context, commit, path string, displayIndex int) (bool, error) {
	cur := ix.byCommit[commit]
	if cur == nil {
		return false, nil
	}

	indices := cur.FileIndices(path)
	if displayIndex < 0 || displayIndex >= len(indices) {
		return false, nil
	}

	next := cur.Clone()
	next.Remove(indices[displayIndex])

	if next.IsEmpty() {
		if _, err := ix.store.Delete(ctx, commit, ix.branch); err != nil {
			return false, err
		}
		delete(ix.byCommit, commit)
		return true, nil
	}

	if err := ix.store.Write(ctx, next); err != nil {
		return false, err
	}
	ix.byCommit[commit] = next
	return true, nil
}

// Clear deletes every stored comment of the branch.
func (ix *Index) Clear(ctx context.Context) (int, error) {
	n, err := ix.store.Clear(ctx, ix.branch)
	if err != nil {
		return n, err
	}
	ix.byCommit = make(map[string]*CommitComments)
	return n, nil
}
