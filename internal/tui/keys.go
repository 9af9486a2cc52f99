package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/andrewleech/git-review/internal/tui/components"
)

// KeyMap holds the bindings of the main view.
type KeyMap struct {
	Quit        key.Binding
	ToggleLog   key.Binding
	SideBySide  key.Binding
	Inline      key.Binding
	Down        key.Binding
	Up          key.Binding
	Left        key.Binding
	Right       key.Binding
	NextCommit  key.Binding
	PrevCommit  key.Binding
	NextFile    key.Binding
	PrevFile    key.Binding
	HalfDown    key.Binding
	HalfUp      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Expand      key.Binding
	Reset       key.Binding
	Comment     key.Binding
	ViewComment key.Binding
	Search      key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	ClearSearch key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ToggleLog:   key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle log")),
		SideBySide:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "side-by-side")),
		Inline:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inline")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "scroll left")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "scroll right")),
		NextCommit:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next commit")),
		PrevCommit:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous commit")),
		NextFile:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next file")),
		PrevFile:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "previous file")),
		HalfDown:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:      key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Expand:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand context")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset context")),
		Comment:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		ViewComment: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view comments")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch:   key.NewBinding(key.WithKeys("enter", "ctrl+n"), key.WithHelp("enter", "next match")),
		PrevMatch:   key.NewBinding(key.WithKeys("N", "ctrl+p"), key.WithHelp("N", "previous match")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.NextCommit, k.PrevCommit, k.Comment, k.ViewComment, k.Search, k.Help}
}

// SearchHelp returns the footer bindings while a search is active.
func (k KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.NextMatch, k.PrevMatch, k.ClearSearch}
}

// FullHelp returns the bindings grouped for the help dialog.
func (k KeyMap) FullHelp() []components.HelpDialogSection {
	group := func(title string, bindings ...key.Binding) components.HelpDialogSection {
		s := components.HelpDialogSection{Title: title}
		for _, b := range bindings {
			s.Entries = append(s.Entries, components.HelpEntry{Key: b.Help().Key, Desc: b.Help().Desc})
		}
		return s
	}

	return []components.HelpDialogSection{
		group("Navigation", k.Down, k.Up, k.HalfDown, k.HalfUp, k.Top, k.Bottom, k.Left, k.Right),
		group("Commits & Files", k.NextCommit, k.PrevCommit, k.NextFile, k.PrevFile),
		group("View", k.SideBySide, k.Inline, k.ToggleLog, k.Expand, k.Reset),
		group("Comments", k.Comment, k.ViewComment),
		group("Search", k.Search, k.NextMatch, k.PrevMatch, k.ClearSearch),
		group("General", k.Help, k.Quit),
	}
}
