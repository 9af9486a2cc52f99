package diff

import (
	"fmt"
	"iter"
	"strings"
)

// SideRowKind identifies a row of the side-by-side layout.
type SideRowKind int

const (
	SideHeader SideRowKind = iota // hunk header, shown on both sides
	SidePair                      // a left/right pair; either side may be blank
	SideGap                       // blank row after each hunk
)

// SideRow is one row of the side-by-side layout of a file. Left holds the
// old side and Right the new side; nil means a blank padding cell.
type SideRow struct {
	Kind   SideRowKind
	Hunk   int
	Header string
	Left   *HunkLine
	Right  *HunkLine
}

// Align walks the side-by-side rows of a file. Context lines take one row
// on both sides. A run of removed lines is paired row by row with the run
// of added lines directly after it, the shorter run padded with blanks.
// Added lines with no removed run before them get a blank left side.
func Align(f *FileDiff) iter.Seq[SideRow] {
	return func(yield func(SideRow) bool) {
		for hi := range f.Hunks {
			h := &f.Hunks[hi]
			if !yield(SideRow{Kind: SideHeader, Hunk: hi, Header: h.Header}) {
				return
			}
			if !alignHunk(hi, h, yield) {
				return
			}
			if !yield(SideRow{Kind: SideGap, Hunk: hi}) {
				return
			}
		}
	}
}

func alignHunk(hi int, h *Hunk, yield func(SideRow) bool) bool {
	lines := h.Lines
	i := 0
	for i < len(lines) {
		switch lines[i].Type {
		case Context:
			l := &lines[i]
			if !yield(SideRow{Kind: SidePair, Hunk: hi, Left: l, Right: l}) {
				return false
			}
			i++
		case Removed:
			start := i
			for i < len(lines) && lines[i].Type == Removed {
				i++
			}
			removed := lines[start:i]

			start = i
			for i < len(lines) && lines[i].Type == Added {
				i++
			}
			added := lines[start:i]

			for j := range max(len(removed), len(added)) {
				row := SideRow{Kind: SidePair, Hunk: hi}
				if j < len(removed) {
					row.Left = &removed[j]
				}
				if j < len(added) {
					row.Right = &added[j]
				}
				if !yield(row) {
					return false
				}
			}
		case Added:
			if !yield(SideRow{Kind: SidePair, Hunk: hi, Right: &lines[i]}) {
				return false
			}
			i++
		}
	}
	return true
}

// Window returns rows [skip, skip+limit) of the file's side-by-side layout.
// Rows before skip are still walked so pairing is correct; nothing past
// skip+limit is produced.
func Window(f *FileDiff, skip, limit int) []SideRow {
	if limit <= 0 {
		return nil
	}
	skip = max(skip, 0)

	rows := make([]SideRow, 0, limit)
	n := 0
	for r := range Align(f) {
		if n >= skip+limit {
			break
		}
		if n >= skip {
			rows = append(rows, r)
		}
		n++
	}
	return rows
}

// CountSideRows returns the number of side-by-side rows of a file.
func CountSideRows(f *FileDiff) int {
	n := 0
	for range Align(f) {
		n++
	}
	return n
}

// GutterWidth is the width of the line-number gutter of a side-by-side cell.
const GutterWidth = 5

// tabWidth is the number of spaces a tab expands to inside a cell.
const tabWidth = 4

// Columns formats the row as two cells of exactly width runes each,
// scrolled horizontally by hscroll. Headers are scrolled like content but
// carry no gutter.
func (r SideRow) Columns(width, hscroll int, numbers bool) (left, right string) {
	switch r.Kind {
	case SideHeader:
		h := Fit(HorizontalScroll(r.Header, hscroll, width), width)
		return h, h
	case SidePair:
		var leftNum, rightNum int
		if r.Left != nil {
			leftNum = r.Left.OldLineNum
		}
		if r.Right != nil {
			rightNum = r.Right.NewLineNum
		}
		return FormatCell(r.Left, leftNum, width, hscroll, numbers),
			FormatCell(r.Right, rightNum, width, hscroll, numbers)
	default:
		blank := strings.Repeat(" ", max(width, 0))
		return blank, blank
	}
}

// FormatCell renders one side of a pair: an optional gutter holding num,
// then the line's prefix and content scrolled by hscroll. A nil line is a
// blank cell. The result is exactly width runes.
func FormatCell(l *HunkLine, num, width, hscroll int, numbers bool) string {
	if l == nil {
		return strings.Repeat(" ", max(width, 0))
	}

	gutter := ""
	if numbers {
		if num > 0 {
			gutter = fmt.Sprintf("%4d ", num)
		} else {
			gutter = strings.Repeat(" ", GutterWidth)
		}
	}

	text := string(l.Type.Prefix()) + ExpandTabs(l.Content)
	avail := max(width-len([]rune(gutter)), 0)
	return Fit(gutter+HorizontalScroll(text, hscroll, avail), width)
}

// HorizontalScroll returns the part of s visible at character offset in a
// column of width characters. When characters are hidden on the left the
// result starts with '<'; when they are hidden on the right it ends with '>'.
func HorizontalScroll(s string, offset, width int) string {
	chars := []rune(s)
	if len(chars) == 0 {
		return ""
	}

	start := min(max(offset, 0), len(chars))
	hasLeft := start > 0

	avail := width
	if hasLeft {
		avail = max(width-1, 0)
	}

	end := min(start+avail, len(chars))
	hasRight := end < len(chars)
	if hasRight {
		end = max(end-1, start)
	}

	var b strings.Builder
	if hasLeft {
		b.WriteByte('<')
	}
	b.WriteString(string(chars[start:end]))
	if hasRight {
		b.WriteByte('>')
	}
	return b.String()
}

// ScrollParts splits what HorizontalScroll shows of prefix+content into the
// leading character (the prefix, or '<' once scrolled), the visible content
// and the trailing '>' marker, so content can be styled separately.
func ScrollParts(prefix byte, content string, offset, width int) (lead, code, trail string) {
	text := string(prefix) + content
	vis := []rune(HorizontalScroll(text, offset, width))
	if len(vis) == 0 {
		return "", "", ""
	}

	n := len([]rune(text))
	start := min(max(offset, 0), n)
	avail := width
	if start > 0 {
		avail = max(width-1, 0)
	}
	hasRight := min(start+avail, n) < n

	lead, vis = string(vis[0]), vis[1:]
	if hasRight && len(vis) > 0 {
		trail, vis = ">", vis[:len(vis)-1]
	}
	return lead, string(vis), trail
}

// Fit pads s with spaces or truncates it to exactly width runes.
func Fit(s string, width int) string {
	width = max(width, 0)
	chars := []rune(s)
	if len(chars) >= width {
		return string(chars[:width])
	}
	return s + strings.Repeat(" ", width-len(chars))
}

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
