package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/diff"
	"github.com/andrewleech/git-review/internal/core/styles"
	"github.com/andrewleech/git-review/internal/tui/components"
)

// inlineGutterWidth is the width of the "old new " line number gutter.
const inlineGutterWidth = 10

type matchMark int

const (
	noMatch matchMark = iota
	otherMatch
	currentMatch
)

func lineStyle(t diff.LineType) lipgloss.Style {
	switch t {
	case diff.Added:
		return styles.AddedStyle
	case diff.Removed:
		return styles.RemovedStyle
	default:
		return styles.ContextStyle
	}
}

func cursorMark(on bool) string {
	if on {
		return styles.CursorStyle.Render("▶")
	}
	return " "
}

func commentMark(has bool) string {
	if has {
		return styles.CommentMarkerStyle.Render("●")
	}
	return " "
}

func commentCount(n int) string {
	if n == 0 {
		return ""
	}
	return styles.CommentMarkerStyle.Render(fmt.Sprintf("  ● %d", n))
}

// commitComments returns the comments of the selected commit, or nil.
func (m Model) commitComments() *comments.CommitComments {
	c, ok := m.session.Commit()
	if !ok {
		return nil
	}
	return m.session.Comments().ForCommit(c.ID)
}

// renderInline renders h rows of the global layout starting at the scroll
// position.
func (m Model) renderInline(w, h int) []string {
	s := m.session
	files := s.Files()
	view := s.View()
	cc := m.commitComments()
	search := s.ActiveSearch()
	cur, _, hasCur := search.Current()

	lines := make([]string, 0, h)
	for r := range diff.Rows(files) {
		if r.Index < view.Scroll {
			continue
		}
		if r.Index >= view.Scroll+h {
			break
		}

		var ms []diff.Match
		if search.Active() {
			ms = search.OnRow(r.Index)
		}
		body := m.inlineRow(files, r, w-1, cc, ms, cur, hasCur)
		lines = append(lines, cursorMark(r.Index == view.Cursor)+fit(body, w-1))
	}
	return lines
}

func (m Model) inlineRow(files []diff.FileDiff, r diff.Row, w int, cc *comments.CommitComments, ms []diff.Match, cur diff.Match, hasCur bool) string {
	f := &files[r.File]
	path := f.Path()

	switch r.Kind {
	case diff.RowSeparatorRule:
		return styles.FileRuleStyle.Render(strings.Repeat("─", max(w, 0)))
	case diff.RowOldPath:
		out := styles.FilePathStyle.Render("--- ") + markMatches(f.OldPath, ms, cur, hasCur, styles.FilePathStyle)
		if f.Status != diff.Modified {
			out += " " + styles.FileStatusStyle.Render("["+f.Status.String()+"]")
		}
		if cc != nil {
			out += commentCount(len(cc.FileLevel(path)))
		}
		return out
	case diff.RowNewPath:
		return styles.FilePathStyle.Render("+++ ") + markMatches(f.NewPath, ms, cur, hasCur, styles.FilePathStyle)
	case diff.RowHunkHeader:
		header := f.Hunks[r.Hunk].Header
		out := markMatches(header, ms, cur, hasCur, styles.HunkHeaderStyle)
		if cc != nil {
			out += commentCount(len(cc.AtHunk(path, header)))
		}
		return out
	case diff.RowExpandAbove:
		n := f.Hunks[r.Hunk].AvailableLinesAbove()
		return styles.ExpandStyle.Render(fmt.Sprintf("   ↑ %d more lines above (e to expand)", n))
	case diff.RowExpandBelow:
		return styles.ExpandStyle.Render("   ↓ more lines below (e to expand)")
	case diff.RowLine:
		l, _ := r.HunkLine(files)
		return m.inlineLine(path, l, w, cc, ms, cur, hasCur)
	default:
		return ""
	}
}

func (m Model) inlineLine(path string, l diff.HunkLine, w int, cc *comments.CommitComments, ms []diff.Match, cur diff.Match, hasCur bool) string {
	var b strings.Builder
	avail := w - 1

	if m.numbers {
		b.WriteString(styles.LineNumberStyle.Render(fmt.Sprintf("%4s %4s ", lineNum(l.OldLineNum), lineNum(l.NewLineNum))))
		avail -= inlineGutterWidth
	}
	b.WriteString(commentMark(cc != nil && len(cc.AtLine(path, l.Number(), comments.SideOf(l.Type))) > 0))

	if avail <= 0 {
		return b.String()
	}

	st := lineStyle(l.Type)
	var body string
	if len(ms) > 0 {
		body = st.Render(string(l.Type.Prefix())) + markMatches(l.Content, ms, cur, hasCur, st)
	} else {
		body = st.Render(string(l.Type.Prefix()) + m.hl.Highlight(path, diff.ExpandTabs(l.Content)))
	}
	body = ansi.Truncate(body, avail, "")
	b.WriteString(body)
	b.WriteString(st.Render(components.Pad(avail - lipgloss.Width(body))))
	return b.String()
}

func lineNum(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprint(n)
}

// markMatches renders text in base with the rune ranges of ms highlighted.
// Ranges are assumed sorted; overlapping ranges are clipped.
func markMatches(text string, ms []diff.Match, cur diff.Match, hasCur bool, base lipgloss.Style) string {
	if len(ms) == 0 {
		return base.Render(diff.ExpandTabs(text))
	}

	runes := []rune(text)
	var b strings.Builder
	pos := 0
	segment := func(st lipgloss.Style, from, to int) {
		if from < to {
			b.WriteString(st.Render(diff.ExpandTabs(string(runes[from:to]))))
		}
	}

	for _, mt := range ms {
		start := min(max(mt.Start, pos), len(runes))
		end := min(mt.End, len(runes))
		if start >= end {
			continue
		}
		segment(base, pos, start)
		st := styles.SearchMatchStyle
		if hasCur && mt == cur {
			st = styles.CurrentMatchStyle
		}
		segment(st, start, end)
		pos = end
	}
	segment(base, pos, len(runes))
	return b.String()
}

// renderSideBySide renders h rows of the selected file's side-by-side
// layout starting at the scroll position.
func (m Model) renderSideBySide(w, h int) []string {
	s := m.session
	files := s.Files()
	f := &files[s.File()]
	path := f.Path()
	view := s.View()
	cc := m.commitComments()
	marks := m.matchedLines(files)

	leftW := (w - 2) / 2
	rightW := w - 2 - leftW
	divider := styles.ColumnDividerStyle.Render("│")

	rows := diff.Window(f, view.Scroll, h)
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		var left, right string
		switch row.Kind {
		case diff.SideHeader:
			left = m.sideHeader(row.Header, leftW, view.HScroll)
			right = m.sideHeader(row.Header, rightW, view.HScroll)
			if cc != nil {
				if n := len(cc.AtHunk(path, row.Header)); n > 0 {
					right = fit(ansi.Truncate(right, rightW-lipgloss.Width(commentCount(n)), "")+commentCount(n), rightW)
				}
			}
		case diff.SidePair:
			var oldNum, newNum int
			if row.Left != nil {
				oldNum = row.Left.OldLineNum
			}
			if row.Right != nil {
				newNum = row.Right.NewLineNum
			}
			left = m.sideCell(path, row.Left, oldNum, leftW, view.HScroll, cc, marks)
			right = m.sideCell(path, row.Right, newNum, rightW, view.HScroll, cc, marks)
		default:
			left, right = components.Pad(leftW), components.Pad(rightW)
		}
		lines = append(lines, cursorMark(view.Scroll+i == view.Cursor)+left+divider+right)
	}
	return lines
}

func (m Model) sideHeader(header string, w, hscroll int) string {
	return styles.HunkHeaderStyle.Render(diff.Fit(diff.HorizontalScroll(header, hscroll, w), w))
}

// sideCell renders one side of a pair: gutter, comment marker, then the
// scrolled content over the line's background.
func (m Model) sideCell(path string, l *diff.HunkLine, num, w, hscroll int, cc *comments.CommitComments, marks map[*diff.HunkLine]matchMark) string {
	if l == nil {
		return components.Pad(w)
	}

	st := lineStyle(l.Type)
	if w < diff.GutterWidth+3 {
		return st.Render(diff.FormatCell(l, num, w, hscroll, m.numbers))
	}

	var gutter string
	avail := w
	if m.numbers {
		n := strings.Repeat(" ", diff.GutterWidth-1)
		if num > 0 {
			n = fmt.Sprintf("%4d", num)
		}
		ns := styles.LineNumberStyle
		switch marks[l] {
		case currentMatch:
			ns = styles.CurrentMatchStyle
		case otherMatch:
			ns = styles.SearchMatchStyle
		}
		gutter = ns.Render(n) + commentMark(cc != nil && len(cc.AtLine(path, l.Number(), comments.SideOf(l.Type))) > 0)
		avail -= diff.GutterWidth
	}

	lead, code, trail := diff.ScrollParts(l.Type.Prefix(), diff.ExpandTabs(l.Content), hscroll, avail)
	used := utf8.RuneCountInString(lead) + utf8.RuneCountInString(code) + utf8.RuneCountInString(trail)
	return gutter + st.Render(lead+m.hl.Highlight(path, code)+trail+components.Pad(avail-used))
}

// matchedLines maps the hunk lines holding search matches to how they are
// marked in the side-by-side gutter.
func (m Model) matchedLines(files []diff.FileDiff) map[*diff.HunkLine]matchMark {
	search := m.session.ActiveSearch()
	if !search.Active() {
		return nil
	}

	rows := make(map[int]matchMark)
	for _, mt := range search.Matches() {
		rows[mt.Row] = otherMatch
	}
	if cur, _, ok := search.Current(); ok {
		rows[cur.Row] = currentMatch
	}

	marks := make(map[*diff.HunkLine]matchMark)
	for r := range diff.Rows(files) {
		if r.Kind != diff.RowLine {
			continue
		}
		if mk, ok := rows[r.Index]; ok {
			marks[&files[r.File].Hunks[r.Hunk].Lines[r.Line]] = mk
		}
	}
	return marks
}
