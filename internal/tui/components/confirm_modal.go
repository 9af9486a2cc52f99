package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andrewleech/git-review/internal/core/styles"
)

// ConfirmModal is a yes/no question answered with a single key.
type ConfirmModal struct {
	message   string
	confirmed bool
	cancelled bool
}

// NewConfirmModal creates a new confirmation modal.
func NewConfirmModal(message string) ConfirmModal {
	return ConfirmModal{message: message}
}

// Update handles input for the confirmation modal.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.confirmed = true
	case "n", "N", "esc", "q":
		m.cancelled = true
	}
	return m, nil
}

// View renders the question and the accepted answers.
func (m ConfirmModal) View() string {
	return styles.StatusStyle.Render(m.message) + " " + styles.FooterKeyStyle.Render("(y/n)")
}

// Confirmed returns true if user confirmed.
func (m ConfirmModal) Confirmed() bool {
	return m.confirmed
}

// Cancelled returns true if user cancelled.
func (m ConfirmModal) Cancelled() bool {
	return m.cancelled
}

// Done reports whether the question has been answered.
func (m ConfirmModal) Done() bool {
	return m.confirmed || m.cancelled
}
