package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/styles"
)

// CommentModal collects the text of a new comment.
type CommentModal struct {
	textInput textinput.Model
	location  string // e.g. "a.go · Line 42 (new)"
	preview   string // the line or header being commented on
	submitted bool
	cancelled bool
}

const maxPreviewLen = 80

// NewCommentModal creates a modal for a comment on target. preview is the
// text under the cursor, shown for orientation.
func NewCommentModal(target comments.Target, preview string, width int) CommentModal {
	ti := textinput.New()
	ti.Placeholder = "Enter your review comment..."
	ti.CharLimit = 2000
	ti.SetWidth(max(width-10, 20))
	ti.Focus()

	return CommentModal{
		textInput: ti,
		location:  target.Path + " · " + target.Location.String(),
		preview:   ansi.Truncate(strings.TrimSpace(preview), maxPreviewLen, "…"),
	}
}

// Update handles messages.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) != "" {
				m.submitted = true
			}
			return m, nil
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m CommentModal) View() string {
	lines := []string{
		styles.ModalTitleStyle.Render("Add Comment"),
		styles.ModalMetaStyle.Render(m.location),
	}
	if m.preview != "" {
		lines = append(lines, styles.LogMetaStyle.Render(m.preview))
	}
	lines = append(lines,
		"",
		m.textInput.View(),
		styles.ModalHelpStyle.Render("enter: save • esc: cancel"),
	)
	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

// Submitted returns true if the comment was submitted.
func (m CommentModal) Submitted() bool {
	return m.submitted
}

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool {
	return m.cancelled
}

// Value returns the entered comment text.
func (m CommentModal) Value() string {
	return m.textInput.Value()
}
