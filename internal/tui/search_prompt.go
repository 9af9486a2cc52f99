package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/andrewleech/git-review/internal/core/styles"
)

// SearchPrompt reads a search query in the footer.
type SearchPrompt struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

// NewSearchPrompt returns a focused prompt prefilled with query.
func NewSearchPrompt(query string, width int) SearchPrompt {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.SetValue(query)
	ti.SetWidth(max(width-4, 10))
	ti.Focus()
	return SearchPrompt{input: ti}
}

func (p SearchPrompt) Update(msg tea.Msg) (SearchPrompt, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			p.submitted = true
			return p, nil
		case "esc":
			p.cancelled = true
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p SearchPrompt) View() string {
	return styles.FooterKeyStyle.Render(p.input.View())
}

func (p SearchPrompt) Submitted() bool { return p.submitted }

func (p SearchPrompt) Cancelled() bool { return p.cancelled }

func (p SearchPrompt) Value() string { return p.input.Value() }
