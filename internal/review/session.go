// Package review holds the state of an interactive review: the commits
// under review, the diff of the selected commit, the view over it, the
// comment index and the active search.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/diff"
	"github.com/andrewleech/git-review/internal/core/git"
	"github.com/andrewleech/git-review/internal/core/logging"
)

// ErrNoTarget is returned when a comment is made where there is nothing to
// attach it to.
var ErrNoTarget = errors.New("nothing to comment on at the cursor")

// Repository is what a session needs from git.
type Repository interface {
	GenerateDiff(ctx context.Context, commit string, contextLines int) ([]byte, error)
	comments.NoteStore
}

var _ Repository = (*git.Executor)(nil)

// Options configure a Session.
type Options struct {
	Branch  string
	Base    string // shown in the header only
	Commits []git.Commit
	Display config.DisplayConfig
}

// Session is the state of one review. It is not safe for concurrent use;
// the TUI drives it from its update loop.
type Session struct {
	repo    Repository
	log     zerolog.Logger
	index   *comments.Index
	commits []git.Commit
	base    string
	ignore  []string
	hstep   int
	now     func() time.Time

	selected int
	files    []diff.FileDiff
	file     int // selected file; side-by-side shows only this file
	mode     config.DiffMode
	view     diff.ViewState
	window   diff.ContextWindow
	search   diff.Search
	status   string
}

// New returns a session over opts.Commits. No repository calls are made
// until Open.
func New(repo Repository, opts Options) (*Session, error) {
	log := logging.Component("review")

	index, err := comments.NewIndex(comments.NewStore(repo, log), opts.Branch)
	if err != nil {
		return nil, err
	}

	mode := opts.Display.DiffMode
	if !mode.IsValid() {
		mode = config.DiffModeSideBySide
	}

	return &Session{
		repo:     repo,
		log:      log,
		index:    index,
		commits:  opts.Commits,
		base:     opts.Base,
		ignore:   opts.Display.Ignore,
		hstep:    max(opts.Display.HorizontalScrollAmount, 1),
		now:      time.Now,
		selected: -1,
		mode:     mode,
		window:   diff.NewContextWindow(opts.Display.ContextLines, opts.Display.ContextExpandIncrement),
	}, nil
}

// Open loads the stored comments of every commit under review and selects
// the first commit. A failure to load comments is reported in the status
// line, not returned.
func (s *Session) Open(ctx context.Context) {
	ids := make([]string, len(s.commits))
	for i, c := range s.commits {
		ids[i] = c.ID
	}

	if err := s.index.Load(ctx, ids); err != nil {
		s.log.Error().Err(err).Msg("load comments")
		s.status = "Failed to load comments: " + err.Error()
	}

	if len(s.commits) > 0 {
		s.selected = 0
		s.loadDiff(ctx)
	}
}

// Branch returns the branch comments are stored for.
func (s *Session) Branch() string { return s.index.Branch() }

// Base returns the label of the base the commits were listed against.
func (s *Session) Base() string { return s.base }

func (s *Session) Commits() []git.Commit { return s.commits }

// Selected returns the index of the selected commit, or -1.
func (s *Session) Selected() int { return s.selected }

// Commit returns the selected commit.
func (s *Session) Commit() (git.Commit, bool) {
	if s.selected < 0 || s.selected >= len(s.commits) {
		return git.Commit{}, false
	}
	return s.commits[s.selected], true
}

func (s *Session) commitID() string {
	c, _ := s.Commit()
	return c.ID
}

// Files returns the parsed diff of the selected commit.
func (s *Session) Files() []diff.FileDiff { return s.files }

// File returns the index of the selected file, or -1 when the diff is empty.
func (s *Session) File() int {
	if len(s.files) == 0 {
		return -1
	}
	return s.file
}

func (s *Session) Mode() config.DiffMode { return s.mode }

// View returns a copy of the view state.
func (s *Session) View() diff.ViewState { return s.view }

// ContextLines returns the context width the current diff was made with.
func (s *Session) ContextLines() int { return s.window.Current }

// Comments returns the comment index.
func (s *Session) Comments() *comments.Index { return s.index }

// ActiveSearch returns the active search for rendering. Run and clear it
// through Search and ClearSearch.
func (s *Session) ActiveSearch() *diff.Search { return &s.search }

// Status returns the message for the status line.
func (s *Session) Status() string { return s.status }

// SetStatus replaces the status line message.
func (s *Session) SetStatus(msg string) { s.status = msg }

// SetHeight sets the number of visible diff rows.
func (s *Session) SetHeight(h int) {
	s.view.Height = max(h, 1)
	s.view.JumpTo(s.view.Cursor, s.TotalRows())
}

// TotalRows returns the number of rows of the current layout: the global
// layout in inline mode, the selected file's aligned rows in side-by-side
// mode.
func (s *Session) TotalRows() int {
	if len(s.files) == 0 {
		return 0
	}
	if s.mode == config.DiffModeSideBySide {
		return diff.CountSideRows(&s.files[s.file])
	}
	return diff.CountRows(s.files)
}

// SelectCommit selects commit i, resetting the context window, the view
// and the search. It reports whether the selection changed.
func (s *Session) SelectCommit(ctx context.Context, i int) bool {
	if i < 0 || i >= len(s.commits) || i == s.selected {
		return false
	}
	s.selected = i
	s.window.Reset()
	s.file = 0
	s.loadDiff(ctx)
	return true
}

func (s *Session) NextCommit(ctx context.Context) bool {
	return s.SelectCommit(ctx, s.selected+1)
}

func (s *Session) PrevCommit(ctx context.Context) bool {
	return s.SelectCommit(ctx, s.selected-1)
}

// ExpandContext widens the context of the whole diff by one increment and
// reloads it.
func (s *Session) ExpandContext(ctx context.Context) {
	if s.selected < 0 {
		return
	}
	n := s.window.Expand()
	s.loadDiff(ctx)
	if s.status == "" {
		s.status = fmt.Sprintf("Context: %d lines", n)
	}
}

// ResetContext restores the default context width. It only reloads the
// diff when the width actually changes.
func (s *Session) ResetContext(ctx context.Context) {
	if s.selected < 0 || !s.window.Expanded() {
		return
	}
	n := s.window.Reset()
	s.loadDiff(ctx)
	if s.status == "" {
		s.status = fmt.Sprintf("Context reset to %d lines", n)
	}
}

// loadDiff regenerates and parses the diff of the selected commit at the
// current context width. Failures are logged, reported in the status line
// and leave an empty diff.
func (s *Session) loadDiff(ctx context.Context) {
	commit := s.commitID()
	ctx = logging.WithCommit(ctx, commit)

	s.status = ""
	s.search.Clear()
	s.view.Reset()

	files, err := s.parseDiff(ctx, commit)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Int("context", s.window.Current).Msg("load diff")
		s.status = "Failed to load diff: " + err.Error()
		files = nil
	}

	s.files = s.filter(files)
	s.file = min(s.file, max(len(s.files)-1, 0))
	if s.mode == config.DiffModeInline {
		s.jumpToFile(s.file)
	}
}

func (s *Session) parseDiff(ctx context.Context, commit string) ([]diff.FileDiff, error) {
	raw, err := s.repo.GenerateDiff(ctx, commit, s.window.Current)
	if err != nil {
		return nil, err
	}

	text, err := diff.Decode(raw)
	if err != nil {
		return nil, err
	}

	files := diff.Parse(text)
	if err := diff.Annotate(files, text); err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("annotate file status")
	}
	return files, nil
}

// filter drops files whose path matches an ignore pattern.
func (s *Session) filter(files []diff.FileDiff) []diff.FileDiff {
	if len(s.ignore) == 0 {
		return files
	}

	out := files[:0]
	for _, f := range files {
		if !s.ignored(f.Path()) {
			out = append(out, f)
		}
	}
	return out
}

func (s *Session) ignored(path string) bool {
	for _, pattern := range s.ignore {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Scroll moves the cursor and viewport by delta rows.
func (s *Session) Scroll(delta int) {
	s.view.ScrollBy(delta, s.TotalRows())
	s.syncFile()
}

// Page scrolls by a full viewport in direction dir (+1 or -1).
func (s *Session) Page(dir int) {
	s.Scroll(dir * max(s.view.Height, 1))
}

// HalfPage scrolls by half a viewport in direction dir.
func (s *Session) HalfPage(dir int) {
	s.Scroll(dir * max(s.view.Height/2, 1))
}

func (s *Session) Top() {
	s.view.JumpTo(0, s.TotalRows())
	s.syncFile()
}

func (s *Session) Bottom() {
	s.view.JumpTo(s.TotalRows()-1, s.TotalRows())
	s.syncFile()
}

// ScrollHorizontal shifts the side-by-side columns by one scroll step in
// direction dir. It has no effect in inline mode.
func (s *Session) ScrollHorizontal(dir int) {
	if s.mode != config.DiffModeSideBySide {
		return
	}
	s.view.ScrollHorizontal(dir * s.hstep)
}

// syncFile keeps the selected file in step with the cursor in inline mode.
func (s *Session) syncFile() {
	if s.mode != config.DiffModeInline {
		return
	}
	if r, ok := diff.RowAt(s.files, s.view.Cursor); ok {
		s.file = r.File
	}
}

func (s *Session) NextFile() bool { return s.selectFile(s.file + 1) }

func (s *Session) PrevFile() bool { return s.selectFile(s.file - 1) }

func (s *Session) selectFile(i int) bool {
	if i < 0 || i >= len(s.files) {
		return false
	}
	s.file = i
	if s.mode == config.DiffModeInline {
		s.jumpToFile(i)
	} else {
		s.view.Reset()
	}
	return true
}

// jumpToFile puts the cursor on the header of file i and scrolls it to
// the top of the viewport.
func (s *Session) jumpToFile(i int) {
	row, ok := diff.FileStartRow(s.files, i)
	if !ok {
		s.view.Reset()
		return
	}
	total := s.TotalRows()
	s.view.JumpTo(row, total)
	s.view.Scroll = min(row, max(total-s.view.Height, 0))
}

// SetMode switches between inline and side-by-side layout, keeping the
// selected file in view.
func (s *Session) SetMode(m config.DiffMode) {
	if !m.IsValid() || m == s.mode {
		return
	}
	s.syncFile()
	s.mode = m
	s.view.Reset()
	if m == config.DiffModeInline {
		s.jumpToFile(s.file)
	}
}

func (s *Session) ToggleMode() {
	if s.mode == config.DiffModeInline {
		s.SetMode(config.DiffModeSideBySide)
	} else {
		s.SetMode(config.DiffModeInline)
	}
}

// Target resolves the cursor to the location a comment would attach to.
func (s *Session) Target() comments.Target {
	if s.mode == config.DiffModeSideBySide {
		if len(s.files) == 0 {
			return comments.Resolve(nil, 0)
		}
		rows := diff.Window(&s.files[s.file], s.view.Cursor, 1)
		if len(rows) == 0 {
			return comments.Resolve(nil, 0)
		}
		return comments.ResolveSideRow(s.files, s.file, rows[0])
	}
	return comments.Resolve(s.files, s.view.Cursor)
}

// AddComment attaches text to the target at the cursor and persists it.
func (s *Session) AddComment(ctx context.Context, text string) (comments.Comment, error) {
	commit := s.commitID()
	target := s.Target()
	if commit == "" || !target.HasFile() {
		return comments.Comment{}, ErrNoTarget
	}

	c, err := comments.New(target.Path, target.Location, text, s.now())
	if err != nil {
		return comments.Comment{}, err
	}

	ctx = logging.WithCommit(ctx, commit)
	if err := s.index.Add(ctx, commit, c); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("save comment")
		s.status = "Failed to save comment: " + err.Error()
		return comments.Comment{}, err
	}

	s.status = "Comment added on " + c.Location.String()
	return c, nil
}

// CommentsAtCursor returns the comments relevant to the cursor position.
func (s *Session) CommentsAtCursor() []comments.Entry {
	return s.index.View(s.commitID(), s.Target())
}

// DeleteComment deletes the comment shown at displayIndex for the file at
// the cursor.
func (s *Session) DeleteComment(ctx context.Context, displayIndex int) (bool, error) {
	commit := s.commitID()
	target := s.Target()
	if commit == "" || !target.HasFile() {
		return false, nil
	}

	ctx = logging.WithCommit(ctx, commit)
	ok, err := s.index.Delete(ctx, commit, target.Path, displayIndex)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("delete comment")
		s.status = "Failed to delete comment: " + err.Error()
		return false, err
	}
	if ok {
		s.status = "Comment deleted"
	}
	return ok, nil
}

// Search runs query over the current diff and moves to the first match.
// It returns the number of matches.
func (s *Session) Search(query string) int {
	n := s.search.Run(s.files, query)
	switch {
	case query == "":
		s.status = ""
	case n == 0:
		s.status = fmt.Sprintf("No matches for %q", query)
	default:
		s.focusCurrent()
	}
	return n
}

func (s *Session) NextMatch() bool {
	if _, ok := s.search.Next(); !ok {
		return false
	}
	s.focusCurrent()
	return true
}

func (s *Session) PrevMatch() bool {
	if _, ok := s.search.Prev(); !ok {
		return false
	}
	s.focusCurrent()
	return true
}

func (s *Session) ClearSearch() {
	s.search.Clear()
	s.status = ""
}

func (s *Session) focusCurrent() {
	m, i, ok := s.search.Current()
	if !ok {
		return
	}
	s.status = fmt.Sprintf("Match %d of %d", i+1, len(s.search.Matches()))

	row := m.Row
	if s.mode == config.DiffModeSideBySide {
		r, ok := diff.RowAt(s.files, m.Row)
		if !ok {
			return
		}
		s.file = r.File
		row = sideRowOf(&s.files[r.File], r)
	}

	if s.view.Visible(row) {
		s.view.JumpTo(row, s.TotalRows())
	} else {
		s.view.CenterOn(row, s.TotalRows())
	}
	s.syncFile()
}

// sideRowOf returns the side-by-side row of f showing the global row r.
// File header rows map to the first row.
func sideRowOf(f *diff.FileDiff, r diff.Row) int {
	if r.Hunk < 0 {
		return 0
	}

	var line *diff.HunkLine
	if r.Kind == diff.RowLine {
		line = &f.Hunks[r.Hunk].Lines[r.Line]
	}

	i := 0
	for sr := range diff.Align(f) {
		if sr.Hunk == r.Hunk {
			switch {
			case line == nil && sr.Kind == diff.SideHeader:
				return i
			case line != nil && (sr.Left == line || sr.Right == line):
				return i
			}
		}
		i++
	}
	return 0
}
