package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andrewleech/git-review/internal/core/config"
	"github.com/andrewleech/git-review/internal/core/diff"
	"github.com/andrewleech/git-review/internal/core/git"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/internal/tui/components"
)

const (
	minLogPaneWidth  = 20
	minDiffPaneWidth = 30
)

// View renders the review screen on the alternate screen.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the header, the log and diff panes, the footer, and any
// open dialog on top.
func (m Model) render() string {
	if m.quitting {
		return ""
	}

	frame := m.renderFrame()
	switch m.state {
	case stateCommenting:
		return components.Overlay(frame, m.comment.View(), m.width, m.height)
	case stateViewingComments:
		return components.Overlay(frame, m.viewer.View(), m.width, m.height)
	case stateShowingHelp:
		return m.helpDialog.Overlay(frame, m.width, m.height)
	default:
		return frame
	}
}

// bodyHeight is the number of rows between header and footer.
func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// diffHeight is the number of diff rows; the diff pane's first row is the
// file title.
func (m Model) diffHeight() int {
	return max(m.bodyHeight()-1, 1)
}

// paneWidths splits the width between the log pane, its border, and the
// diff pane. The log pane is hidden when toggled off or when it does not fit.
func (m Model) paneWidths() (logW, diffW int) {
	if !m.showLog || m.width < minLogPaneWidth+minDiffPaneWidth+1 {
		return 0, m.width
	}
	logW = int(float64(m.width) * m.logRatio)
	logW = max(logW, minLogPaneWidth)
	logW = min(logW, m.width-minDiffPaneWidth-1)
	return logW, m.width - logW - 1
}

func (m Model) renderFrame() string {
	logW, diffW := m.paneWidths()
	h := m.bodyHeight()

	diffLines := m.renderDiffPane(diffW, h)

	var logLines []string
	if logW > 0 {
		logLines = m.renderLogPane(logW, h)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	for i := range h {
		b.WriteByte('\n')
		if logW > 0 {
			b.WriteString(logLines[i])
			b.WriteString(styles.PaneBorderStyle.Render("│"))
		}
		b.WriteString(diffLines[i])
	}
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.session

	parts := []string{styles.HeaderBranchStyle.Render(styles.IconGitBranch + " " + s.Branch())}
	if s.Base() != "" {
		parts = append(parts, "vs "+s.Base())
	}
	if n := len(s.Commits()); n > 0 {
		parts = append(parts, fmt.Sprintf("commit %d/%d", s.Selected()+1, n))
	}
	parts = append(parts,
		fmt.Sprintf("context %d", s.ContextLines()),
		styles.HeaderModeStyle.Render(string(s.Mode())),
	)
	if total := s.Comments().Total(); total > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", styles.IconComment, total))
	}

	line := strings.Join(parts, styles.HeaderModeStyle.Render(" │ "))
	return styles.HeaderStyle.Width(m.width).Render(ansi.Truncate(line, max(m.width-2, 0), "…"))
}

func (m Model) renderFooter() string {
	if m.state == stateSearching {
		return fit(m.search.View(), m.width)
	}
	if status := m.session.Status(); status != "" {
		return fit(styles.StatusStyle.Render(status), m.width)
	}

	bindings := m.keys.ShortHelp()
	if m.session.ActiveSearch().Active() {
		bindings = m.keys.SearchHelp()
	}
	return fit(m.help.ShortHelpView(bindings), m.width)
}

// renderLogPane lists the commits, newest first, keeping the selected
// commit in view.
func (m Model) renderLogPane(w, h int) []string {
	s := m.session
	commits := s.Commits()
	sel := s.Selected()

	start := min(max(sel-h/2, 0), max(len(commits)-h, 0))
	now := time.Now()

	lines := make([]string, 0, h)
	for i := start; i < len(commits) && len(lines) < h; i++ {
		lines = append(lines, m.renderLogEntry(commits[i], i == sel, w, now))
	}
	for len(lines) < h {
		lines = append(lines, components.Pad(w))
	}
	return lines
}

func (m Model) renderLogEntry(c git.Commit, selected bool, w int, now time.Time) string {
	id := styles.LogShortIDStyle.Render(c.ShortID)
	if c.ShortID == "" {
		id = styles.LogShortIDStyle.Render(git.ShortID(c.ID))
	}

	meta := c.RelativeTime(now)
	if n := m.session.Comments().Count(c.ID); n > 0 {
		meta = styles.CommentMarkerStyle.Render(fmt.Sprintf("●%d ", n)) + meta
	}
	meta = styles.LogMetaStyle.Render(meta)

	avail := max(w-lipgloss.Width(id)-lipgloss.Width(meta)-3, 0)
	summary := ansi.Truncate(c.Summary(), avail, "…")
	gap := components.Pad(w - 1 - lipgloss.Width(id) - 1 - lipgloss.Width(summary) - lipgloss.Width(meta))

	if selected {
		return fit(styles.LogSelectedStyle.Render("▌"+id+" "+summary+gap+meta), w)
	}
	return fit(" "+id+" "+styles.LogNormalStyle.Render(summary)+gap+meta, w)
}

func (m Model) renderDiffPane(w, h int) []string {
	s := m.session
	lines := make([]string, 0, h)
	lines = append(lines, fit(m.renderFileTitle(), w))

	files := s.Files()
	if len(files) == 0 {
		msg := "No changes to display"
		if len(s.Commits()) == 0 {
			msg = "No commits to review"
		}
		lines = append(lines, fit(styles.LogMetaStyle.Render("  "+msg), w))
	} else if s.Mode() == config.DiffModeSideBySide {
		lines = append(lines, m.renderSideBySide(w, h-1)...)
	} else {
		lines = append(lines, m.renderInline(w, h-1)...)
	}

	for len(lines) < h {
		lines = append(lines, components.Pad(w))
	}
	return lines[:h]
}

func (m Model) renderFileTitle() string {
	s := m.session
	files := s.Files()
	fi := s.File()
	if fi < 0 {
		if c, ok := s.Commit(); ok {
			return styles.FilePathStyle.Render(styles.IconGitCommit + " " + c.Summary())
		}
		return ""
	}

	f := files[fi]
	added, removed := f.Stats()
	title := styles.FilePathStyle.Render(f.Path())
	if f.Status != diff.Modified {
		title += " " + styles.FileStatusStyle.Render("["+f.Status.String()+"]")
	}
	title += styles.LogMetaStyle.Render(fmt.Sprintf("  file %d/%d  ", fi+1, len(files)))
	title += styles.AddedStyle.Render(fmt.Sprintf("+%d", added)) + " " + styles.RemovedStyle.Render(fmt.Sprintf("-%d", removed))
	return title
}

// cursorText returns the text under the cursor: the line content, the hunk
// header, or the file path.
func (m Model) cursorText() string {
	s := m.session
	files := s.Files()
	if len(files) == 0 {
		return ""
	}

	if s.Mode() == config.DiffModeSideBySide {
		rows := diff.Window(&files[s.File()], s.View().Cursor, 1)
		if len(rows) == 0 {
			return ""
		}
		switch r := rows[0]; {
		case r.Right != nil:
			return r.Right.Content
		case r.Left != nil:
			return r.Left.Content
		default:
			return files[s.File()].Hunks[r.Hunk].Header
		}
	}

	r, ok := diff.RowAt(files, s.View().Cursor)
	if !ok {
		return ""
	}
	if text := r.Text(files); text != "" {
		return text
	}
	return files[r.File].Path()
}

// fit truncates or pads a styled string to exactly w columns.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	t := ansi.Truncate(s, w, "")
	return t + components.Pad(w-lipgloss.Width(t))
}
