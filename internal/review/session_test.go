package review

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/git"
	"github.com/andrewleech/git-review/internal/review/reviewtest"
)

var errBoom = errors.New("boom")

const notesRef = "refs/notes/git-review/feature-x"

func newFakeRepo() *reviewtest.Repo {
	return reviewtest.NewRepo(map[string]string{"c1": reviewtest.TwoFiles, "c2": reviewtest.TwoFiles})
}

type diffCall = reviewtest.DiffCall

func testDisplay(mode config.DiffMode) config.DisplayConfig {
	return config.DisplayConfig{
		DiffMode:               mode,
		ContextLines:           3,
		ContextExpandIncrement: 2,
		HorizontalScrollAmount: 4,
		Ignore:                 []string{"vendor/**"},
	}
}

func openSession(t *testing.T, repo *reviewtest.Repo, mode config.DiffMode) *Session {
	t.Helper()
	s, err := New(repo, Options{
		Branch:  "feature/x",
		Base:    "main",
		Commits: []git.Commit{{ID: "c1", Message: "first"}, {ID: "c2", Message: "second"}},
		Display: testDisplay(mode),
	})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	s.SetHeight(5)
	s.Open(context.Background())
	return s
}

func paths(s *Session) []string {
	var out []string
	for _, f := range s.Files() {
		out = append(out, f.Path())
	}
	return out
}

func TestNew_InvalidBranch(t *testing.T) {
	_, err := New(newFakeRepo(), Options{Branch: "-bad", Display: testDisplay(config.DiffModeInline)})
	require.ErrorIs(t, err, comments.ErrInvalidBranch)
}

func TestOpen_LoadsFirstCommit(t *testing.T) {
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)

	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, []diffCall{{Commit: "c1", Context: 3}}, repo.Calls)
	assert.Equal(t, []string{"a.go", "b.go"}, paths(s))
	assert.Equal(t, 21, s.TotalRows())
	assert.Equal(t, 0, s.File())
	assert.Empty(t, s.Status())
}

func TestOpen_LoadsStoredComments(t *testing.T) {
	repo := newFakeRepo()
	cc := comments.NewCommitComments("c2", "feature/x", time.Now())
	c, err := comments.New("b.go", comments.FileWide(), "looks fine", time.Now())
	require.NoError(t, err)
	cc.Add(c)
	data, err := json.Marshal(cc)
	require.NoError(t, err)
	repo.Notes[notesRef] = map[string]string{"c2": string(data)}

	s := openSession(t, repo, config.DiffModeInline)

	assert.Equal(t, 1, s.Comments().Count("c2"))
	assert.Equal(t, 0, s.Comments().Count("c1"))
}

func TestOpen_DiffFailureFallsBackToEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.DiffErr = errBoom
	s := openSession(t, repo, config.DiffModeInline)

	assert.Empty(t, s.Files())
	assert.Equal(t, -1, s.File())
	assert.Equal(t, 0, s.TotalRows())
	assert.Contains(t, s.Status(), "Failed to load diff")
	assert.False(t, s.Target().HasFile())

	_, err := s.AddComment(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestOpen_BinaryOutputFallsBackToEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.Diffs["c1"] = "diff\x00bytes"
	s := openSession(t, repo, config.DiffModeInline)

	assert.Empty(t, s.Files())
	assert.Contains(t, s.Status(), "not text")
}

func TestSelectCommit_ResetsContextAndView(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)

	s.ExpandContext(ctx)
	s.Scroll(3)
	require.Equal(t, 5, s.ContextLines())

	require.True(t, s.NextCommit(ctx))
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, 3, s.ContextLines())
	assert.Equal(t, 0, s.View().Cursor)
	assert.Equal(t, diffCall{Commit: "c2", Context: 3}, repo.Calls[len(repo.Calls)-1])

	assert.False(t, s.NextCommit(ctx), "already at the last commit")
	assert.False(t, s.SelectCommit(ctx, 1), "selecting the current commit is a no-op")
	assert.False(t, s.SelectCommit(ctx, 7))
	require.True(t, s.PrevCommit(ctx))
	assert.Equal(t, 0, s.Selected())
}

func TestExpandContext_RegeneratesWiderDiff(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)
	s.Scroll(6)

	s.ExpandContext(ctx)
	s.ExpandContext(ctx)

	assert.Equal(t, []diffCall{
		{Commit: "c1", Context: 3},
		{Commit: "c1", Context: 5},
		{Commit: "c1", Context: 7},
	}, repo.Calls)
	assert.Equal(t, 0, s.View().Cursor)
	assert.Equal(t, "Context: 7 lines", s.Status())
}

func TestResetContext_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)

	s.ResetContext(ctx)
	assert.Len(t, repo.Calls, 1, "reset at default width does not reload")

	s.ExpandContext(ctx)
	s.ResetContext(ctx)
	s.ResetContext(ctx)

	assert.Len(t, repo.Calls, 3)
	assert.Equal(t, diffCall{Commit: "c1", Context: 3}, repo.Calls[2])
	assert.Equal(t, 3, s.ContextLines())
}

func TestInlineNavigation(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)

	require.True(t, s.NextFile())
	assert.Equal(t, 1, s.File())
	assert.Equal(t, 12, s.View().Cursor)
	assert.False(t, s.NextFile())

	require.True(t, s.PrevFile())
	assert.Equal(t, 0, s.View().Cursor)

	s.Scroll(13)
	assert.Equal(t, 13, s.View().Cursor)
	assert.Equal(t, 1, s.File(), "selected file follows the cursor")

	s.Bottom()
	assert.Equal(t, 20, s.View().Cursor)
	assert.Equal(t, 16, s.View().Scroll)

	s.Top()
	assert.Equal(t, 0, s.View().Cursor)
	assert.Equal(t, 0, s.File())

	s.Page(1)
	assert.Equal(t, 5, s.View().Cursor)
	s.HalfPage(-1)
	assert.Equal(t, 3, s.View().Cursor)
}

func TestSideBySideNavigation(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeSideBySide)

	// header, 3 pairs, gap
	assert.Equal(t, 5, s.TotalRows())

	s.Scroll(2)
	target := s.Target()
	assert.Equal(t, comments.LevelLine, target.Level)
	assert.Equal(t, "a.go", target.Path)
	assert.Equal(t, comments.LineAt(2, comments.SideNew), target.Location)

	require.True(t, s.NextFile())
	assert.Equal(t, 1, s.File())
	assert.Equal(t, 0, s.View().Cursor)
	assert.Equal(t, comments.LevelHunk, s.Target().Level)
	assert.Equal(t, "b.go", s.Target().Path)
}

func TestScrollHorizontal(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)
	s.ScrollHorizontal(1)
	assert.Equal(t, 0, s.View().HScroll, "inline mode does not scroll horizontally")

	s.SetMode(config.DiffModeSideBySide)
	s.ScrollHorizontal(1)
	s.ScrollHorizontal(1)
	assert.Equal(t, 8, s.View().HScroll)
	s.ScrollHorizontal(-3)
	assert.Equal(t, 0, s.View().HScroll)
}

func TestSetMode_KeepsSelectedFile(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)
	s.Scroll(17)
	require.Equal(t, 1, s.File())

	s.ToggleMode()
	assert.Equal(t, config.DiffModeSideBySide, s.Mode())
	assert.Equal(t, 1, s.File())
	assert.Equal(t, 0, s.View().Cursor)

	s.ToggleMode()
	assert.Equal(t, config.DiffModeInline, s.Mode())
	assert.Equal(t, 12, s.View().Cursor)

	s.SetMode("diagonal")
	assert.Equal(t, config.DiffModeInline, s.Mode())
}

func TestComments_AddViewDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)

	s.Scroll(6) // +var x = 2
	c, err := s.AddComment(ctx, "  use a constant ")
	require.NoError(t, err)
	assert.Equal(t, "use a constant", c.Text)
	assert.Equal(t, comments.LineAt(2, comments.SideNew), c.Location)
	assert.Contains(t, repo.Notes[notesRef], "c1")

	s.Scroll(-3) // hunk header
	_, err = s.AddComment(ctx, "whole hunk")
	require.NoError(t, err)

	s.Scroll(3)
	entries := s.CommentsAtCursor()
	require.Len(t, entries, 2)
	assert.Equal(t, "use a constant", entries[0].Comment.Text)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, "whole hunk", entries[1].Comment.Text)
	assert.Equal(t, 1, entries[1].Index)

	ok, err := s.DeleteComment(ctx, entries[0].Index)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Comment deleted", s.Status())

	entries = s.CommentsAtCursor()
	require.Len(t, entries, 1)
	assert.Equal(t, "whole hunk", entries[0].Comment.Text)
	assert.Equal(t, 0, entries[0].Index)

	ok, err = s.DeleteComment(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.AddComment(ctx, "   ")
	assert.ErrorIs(t, err, comments.ErrEmptyComment)
}

func TestComments_StorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := openSession(t, repo, config.DiffModeInline)
	s.Scroll(6)

	repo.FailWrites = true
	_, err := s.AddComment(ctx, "lost")
	require.ErrorIs(t, err, reviewtest.ErrWrite)
	assert.Contains(t, s.Status(), "Failed to save comment")
	assert.Empty(t, s.CommentsAtCursor())
}

func TestSearch_Inline(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)

	n := s.Search("VAR")
	require.Equal(t, 2, n)
	assert.Equal(t, 5, s.View().Cursor)
	assert.Equal(t, "Match 1 of 2", s.Status())

	require.True(t, s.NextMatch())
	assert.Equal(t, 6, s.View().Cursor)
	require.True(t, s.NextMatch())
	assert.Equal(t, 5, s.View().Cursor, "next wraps to the first match")
	require.True(t, s.PrevMatch())
	assert.Equal(t, 6, s.View().Cursor)

	s.ClearSearch()
	assert.False(t, s.ActiveSearch().Active())
	assert.False(t, s.NextMatch())
}

func TestSearch_NoMatches(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)

	assert.Equal(t, 0, s.Search("zzz"))
	assert.Equal(t, `No matches for "zzz"`, s.Status())
	assert.Equal(t, 0, s.View().Cursor)
}

func TestSearch_SideBySideSwitchesFile(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeSideBySide)

	require.Equal(t, 1, s.Search("added"))
	assert.Equal(t, 1, s.File())
	// b.go: header, keep, (blank | +added), tail
	assert.Equal(t, 2, s.View().Cursor)
}

func TestExpandContext_ClearsSearch(t *testing.T) {
	s := openSession(t, newFakeRepo(), config.DiffModeInline)
	s.Search("var")
	s.ExpandContext(context.Background())
	assert.False(t, s.ActiveSearch().Active())
}
