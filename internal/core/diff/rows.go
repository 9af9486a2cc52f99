package diff

import "iter"

// RowKind identifies what a row of the global layout displays.
type RowKind int

const (
	RowSeparatorGap  RowKind = iota // blank row around the rule between files
	RowSeparatorRule                // rule between two files
	RowOldPath                      // "--- old path"
	RowNewPath                      // "+++ new path"
	RowFileGap                      // blank row after the file header
	RowHunkHeader                   // the @@ line
	RowExpandAbove                  // "expand above" affordance
	RowLine                         // a hunk line
	RowExpandBelow                  // "expand below" affordance
	RowHunkGap                      // blank row after each hunk
)

// Row is one entry of the global row numbering shared by the inline view,
// the cursor, the comment resolver, and search. Hunk and Line are -1 when
// the row is not inside a hunk or not a hunk line.
type Row struct {
	Index int
	Kind  RowKind
	File  int
	Hunk  int
	Line  int
}

// IsFileLevel reports whether the row belongs to a file rather than a hunk.
func (r Row) IsFileLevel() bool {
	return r.Hunk < 0
}

// Rows walks the global row layout of files:
//
//	for every file but the first: gap, rule, gap
//	per file: old path, new path, gap
//	per hunk: header, [expand above], lines..., [expand below], gap
//
// Expand above is present when the hunk has context available above it;
// expand below when the file length is known and the hunk ends before it.
func Rows(files []FileDiff) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		idx := 0
		emit := func(kind RowKind, file, hunk, line int) bool {
			ok := yield(Row{Index: idx, Kind: kind, File: file, Hunk: hunk, Line: line})
			idx++
			return ok
		}

		for fi := range files {
			f := &files[fi]
			if fi > 0 {
				if !emit(RowSeparatorGap, fi, -1, -1) ||
					!emit(RowSeparatorRule, fi, -1, -1) ||
					!emit(RowSeparatorGap, fi, -1, -1) {
					return
				}
			}
			if !emit(RowOldPath, fi, -1, -1) ||
				!emit(RowNewPath, fi, -1, -1) ||
				!emit(RowFileGap, fi, -1, -1) {
				return
			}

			for hi := range f.Hunks {
				h := &f.Hunks[hi]
				if !emit(RowHunkHeader, fi, hi, -1) {
					return
				}
				if h.AvailableLinesAbove() > 0 {
					if !emit(RowExpandAbove, fi, hi, -1) {
						return
					}
				}
				for li := range h.Lines {
					if !emit(RowLine, fi, hi, li) {
						return
					}
				}
				if f.NewFileLines > 0 && h.CanExpandBelow(f.NewFileLines) {
					if !emit(RowExpandBelow, fi, hi, -1) {
						return
					}
				}
				if !emit(RowHunkGap, fi, hi, -1) {
					return
				}
			}
		}
	}
}

// CountRows returns the total number of rows in the layout.
func CountRows(files []FileDiff) int {
	n := 0
	for range Rows(files) {
		n++
	}
	return n
}

// RowAt returns the row with the given index.
func RowAt(files []FileDiff, index int) (Row, bool) {
	if index < 0 {
		return Row{}, false
	}
	for r := range Rows(files) {
		if r.Index == index {
			return r, true
		}
	}
	return Row{}, false
}

// FileStartRow returns the index of the first header row of a file
// (its old path row).
func FileStartRow(files []FileDiff, file int) (int, bool) {
	for r := range Rows(files) {
		if r.File == file && r.Kind == RowOldPath {
			return r.Index, true
		}
	}
	return 0, false
}

// RowForLine returns the row index of a hunk line.
func RowForLine(files []FileDiff, file, hunk, line int) (int, bool) {
	for r := range Rows(files) {
		if r.Kind == RowLine && r.File == file && r.Hunk == hunk && r.Line == line {
			return r.Index, true
		}
	}
	return 0, false
}

// Text returns the searchable text of a row: the path for path rows, the
// header for hunk headers, and the content for lines. Other rows have none.
func (r Row) Text(files []FileDiff) string {
	f := &files[r.File]
	switch r.Kind {
	case RowOldPath:
		return f.OldPath
	case RowNewPath:
		return f.NewPath
	case RowHunkHeader:
		return f.Hunks[r.Hunk].Header
	case RowLine:
		return f.Hunks[r.Hunk].Lines[r.Line].Content
	default:
		return ""
	}
}

// HunkLine returns the hunk line a RowLine row displays.
func (r Row) HunkLine(files []FileDiff) (HunkLine, bool) {
	if r.Kind != RowLine {
		return HunkLine{}, false
	}
	return files[r.File].Hunks[r.Hunk].Lines[r.Line], true
}
