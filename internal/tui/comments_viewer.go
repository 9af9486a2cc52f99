package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/internal/tui/components"
)

// CommentsViewer lists the comments at the cursor and lets one be deleted.
type CommentsViewer struct {
	title    string
	entries  []comments.Entry
	selected int
	confirm  *components.ConfirmModal
	width    int

	closed bool
	delete int // display index to delete, -1 for none
}

// NewCommentsViewer creates a viewer over entries.
func NewCommentsViewer(title string, entries []comments.Entry, width int) CommentsViewer {
	return CommentsViewer{title: title, entries: entries, width: width, delete: -1}
}

// Update handles keys. Deleting asks for confirmation first; the confirmed
// request is reported by Delete.
func (v CommentsViewer) Update(msg tea.Msg) (CommentsViewer, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return v, nil
	}

	if v.confirm != nil {
		c, cmd := v.confirm.Update(keyMsg)
		switch {
		case c.Confirmed():
			v.delete = v.entries[v.selected].Index
			v.confirm = nil
		case c.Cancelled():
			v.confirm = nil
		default:
			v.confirm = &c
		}
		return v, cmd
	}

	switch keyMsg.String() {
	case "esc", "q", "v":
		v.closed = true
	case "j", "down":
		v.selected = min(v.selected+1, max(len(v.entries)-1, 0))
	case "k", "up":
		v.selected = max(v.selected-1, 0)
	case "d":
		if len(v.entries) > 0 {
			c := components.NewConfirmModal("Delete this comment?")
			v.confirm = &c
		}
	}
	return v, nil
}

// Closed reports whether the viewer was dismissed.
func (v CommentsViewer) Closed() bool {
	return v.closed
}

// Delete returns the display index of the comment the user confirmed for
// deletion.
func (v CommentsViewer) Delete() (int, bool) {
	return v.delete, v.delete >= 0
}

// Refresh replaces the entries after a deletion and clears the request.
func (v CommentsViewer) Refresh(entries []comments.Entry) CommentsViewer {
	v.entries = entries
	v.delete = -1
	v.selected = min(v.selected, max(len(entries)-1, 0))
	return v
}

// View renders the list.
func (v CommentsViewer) View() string {
	textWidth := max(v.width-12, 20)

	lines := []string{styles.ModalTitleStyle.Render(v.title), ""}
	if len(v.entries) == 0 {
		lines = append(lines, styles.LogMetaStyle.Render("No comments here."))
	}

	for i, e := range v.entries {
		marker := "  "
		if i == v.selected {
			marker = styles.CommentMarkerStyle.Render("▶ ")
		}
		lines = append(lines, marker+styles.ModalMetaStyle.Render(e.Comment.Location.String()))
		for _, l := range strings.Split(ansi.Wordwrap(e.Comment.Text, textWidth, ""), "\n") {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "  "+styles.LogMetaStyle.Render("-- "+e.Comment.CreatedAt.Local().Format("2006-01-02 15:04")))
		if i < len(v.entries)-1 {
			lines = append(lines, "")
		}
	}

	help := "j/k: select • d: delete • esc: close"
	if v.confirm != nil {
		help = v.confirm.View()
	}
	lines = append(lines, styles.ModalHelpStyle.Render(help))

	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}
