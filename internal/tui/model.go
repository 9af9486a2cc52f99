// Package tui implements the Bubble Tea TUI for reviewing commits.
package tui

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/logging"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/internal/core/syntax"
	"github.com/andrewleech/git-review/internal/review"
	"github.com/andrewleech/git-review/internal/tui/components"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateCommenting
	stateViewingComments
	stateSearching
	stateShowingHelp
)

// Options configures the TUI.
type Options struct {
	Highlighter     syntax.Highlighter // nil disables highlighting
	ShowLineNumbers bool
	LogPaneRatio    float64
	// SaveMode persists the diff mode after the user switches it. Optional.
	SaveMode func(config.DiffMode) error
}

// Model is the main Bubble Tea model.
type Model struct {
	ctx      context.Context
	session  *review.Session
	log      zerolog.Logger
	keys     KeyMap
	help     help.Model
	hl       syntax.Highlighter
	numbers  bool
	logRatio float64
	saveMode func(config.DiffMode) error

	state      UIState
	width      int
	height     int
	showLog    bool
	comment    CommentModal
	viewer     CommentsViewer
	search     SearchPrompt
	helpDialog *components.HelpDialog
	quitting   bool
}

// New returns a model over an opened session. ctx is used for every
// repository call the session makes.
func New(ctx context.Context, session *review.Session, opts Options) Model {
	hl := opts.Highlighter
	if hl == nil {
		hl = syntax.Plain{}
	}

	ratio := opts.LogPaneRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = config.DefaultConfig().UI.LogPaneWidthRatio
	}

	h := help.New()
	h.Styles.ShortKey = styles.FooterKeyStyle
	h.Styles.ShortDesc = styles.FooterStyle
	h.Styles.ShortSeparator = styles.FooterStyle

	return Model{
		ctx:      ctx,
		session:  session,
		log:      logging.Component("tui"),
		keys:     DefaultKeyMap(),
		help:     h,
		hl:       hl,
		numbers:  opts.ShowLineNumbers,
		logRatio: ratio,
		saveMode: opts.SaveMode,
		showLog:  true,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetWidth(msg.Width)
	case tea.KeyPressMsg:
		m, cmd = m.handleKey(msg)
	default:
		m, cmd = m.updateInputs(msg)
	}

	m.session.SetHeight(m.diffHeight())
	return m, cmd
}

// updateInputs forwards non-key messages (cursor blink) to the active input.
func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case stateCommenting:
		m.comment, cmd = m.comment.Update(msg)
	case stateSearching:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateCommenting:
		return m.handleCommentKey(msg)
	case stateViewingComments:
		return m.handleViewerKey(msg)
	case stateSearching:
		return m.handleSearchKey(msg)
	case stateShowingHelp:
		return m.handleHelpKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	s := m.session
	k := m.keys

	// With an active search, enter/N/esc operate on matches.
	if s.ActiveSearch().Active() {
		switch {
		case key.Matches(msg, k.NextMatch):
			s.NextMatch()
			return m, nil
		case key.Matches(msg, k.PrevMatch):
			s.PrevMatch()
			return m, nil
		case key.Matches(msg, k.ClearSearch):
			s.ClearSearch()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Help):
		m.helpDialog = components.NewHelpDialog("Keyboard Shortcuts", k.FullHelp())
		m.state = stateShowingHelp
	case key.Matches(msg, k.ToggleLog):
		m.showLog = !m.showLog
	case key.Matches(msg, k.SideBySide):
		m.setMode(config.DiffModeSideBySide)
	case key.Matches(msg, k.Inline):
		m.setMode(config.DiffModeInline)
	case key.Matches(msg, k.Down):
		s.Scroll(1)
	case key.Matches(msg, k.Up):
		s.Scroll(-1)
	case key.Matches(msg, k.Left):
		s.ScrollHorizontal(-1)
	case key.Matches(msg, k.Right):
		s.ScrollHorizontal(1)
	case key.Matches(msg, k.NextCommit):
		s.NextCommit(m.ctx)
	case key.Matches(msg, k.PrevCommit):
		s.PrevCommit(m.ctx)
	case key.Matches(msg, k.NextFile):
		s.NextFile()
	case key.Matches(msg, k.PrevFile):
		s.PrevFile()
	case key.Matches(msg, k.HalfDown):
		s.HalfPage(1)
	case key.Matches(msg, k.HalfUp):
		s.HalfPage(-1)
	case key.Matches(msg, k.Top):
		s.Top()
	case key.Matches(msg, k.Bottom):
		s.Bottom()
	case key.Matches(msg, k.Expand):
		s.ExpandContext(m.ctx)
	case key.Matches(msg, k.Reset):
		s.ResetContext(m.ctx)
	case key.Matches(msg, k.Comment):
		return m.openComment()
	case key.Matches(msg, k.ViewComment):
		return m.openViewer()
	case key.Matches(msg, k.Search):
		m.search = NewSearchPrompt(s.ActiveSearch().Query(), m.width)
		m.state = stateSearching
	}
	return m, nil
}

func (m *Model) setMode(mode config.DiffMode) {
	if m.session.Mode() == mode {
		return
	}
	m.session.SetMode(mode)
	if m.saveMode == nil {
		return
	}
	if err := m.saveMode(mode); err != nil {
		m.log.Warn().Err(err).Msg("save diff mode")
		m.session.SetStatus("Failed to save config: " + err.Error())
	}
}

func (m Model) openComment() (Model, tea.Cmd) {
	target := m.session.Target()
	if !target.HasFile() {
		m.session.SetStatus("Nothing to comment on here")
		return m, nil
	}
	m.comment = NewCommentModal(target, m.cursorText(), m.modalWidth())
	m.state = stateCommenting
	return m, nil
}

func (m Model) handleCommentKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)

	switch {
	case m.comment.Cancelled():
		m.state = stateNormal
	case m.comment.Submitted():
		m.state = stateNormal
		if _, err := m.session.AddComment(m.ctx, m.comment.Value()); err != nil {
			// storage failures already set the status line
			if errors.Is(err, comments.ErrEmptyComment) || errors.Is(err, review.ErrNoTarget) {
				m.session.SetStatus(err.Error())
			}
		}
	}
	return m, cmd
}

func (m Model) openViewer() (Model, tea.Cmd) {
	target := m.session.Target()
	entries := m.session.CommentsAtCursor()
	if len(entries) == 0 {
		m.session.SetStatus("No comments at cursor")
		return m, nil
	}

	title := "Comments"
	if target.HasFile() {
		title += " · " + target.Path
	}
	m.viewer = NewCommentsViewer(title, entries, m.modalWidth())
	m.state = stateViewingComments
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)

	if idx, ok := m.viewer.Delete(); ok {
		if _, err := m.session.DeleteComment(m.ctx, idx); err != nil {
			m.state = stateNormal
			return m, cmd
		}
		entries := m.session.CommentsAtCursor()
		m.viewer = m.viewer.Refresh(entries)
		if len(entries) == 0 {
			m.state = stateNormal
		}
	}

	if m.viewer.Closed() {
		m.state = stateNormal
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	switch {
	case m.search.Cancelled():
		m.state = stateNormal
	case m.search.Submitted():
		m.state = stateNormal
		m.session.Search(m.search.Value())
	}
	return m, cmd
}

func (m Model) handleHelpKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.state = stateNormal
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) modalWidth() int {
	return min(max(m.width*2/3, 40), 100)
}
