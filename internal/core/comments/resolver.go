package comments

import "github.com/andrewleech/git-review/internal/core/diff"

// Target is what a comment made at a cursor position would attach to.
type Target struct {
	Level    Level
	File     int // index into the diff's files, -1 when there is none
	Path     string
	Location Location

	// Hunk and HunkHeader identify the enclosing hunk for hunk and line
	// targets. Hunk is -1 otherwise.
	Hunk       int
	HunkHeader string
}

// HasFile reports whether the target refers to a file of the diff.
func (t Target) HasFile() bool {
	return t.File >= 0
}

func noTarget() Target {
	return Target{Level: LevelFile, File: -1, Hunk: -1, Location: FileWide()}
}

func fileTarget(files []diff.FileDiff, fi int) Target {
	return Target{Level: LevelFile, File: fi, Path: files[fi].Path(), Location: FileWide(), Hunk: -1}
}

func hunkTarget(files []diff.FileDiff, fi, hi int) Target {
	header := files[fi].Hunks[hi].Header
	return Target{
		Level:      LevelHunk,
		File:       fi,
		Path:       files[fi].Path(),
		Location:   HunkAt(header),
		Hunk:       hi,
		HunkHeader: header,
	}
}

// SideOf maps a diff line type to the side a line comment is recorded on.
func SideOf(t diff.LineType) Side {
	switch t {
	case diff.Added:
		return SideNew
	case diff.Removed:
		return SideOld
	default:
		return SideContext
	}
}

func lineTarget(files []diff.FileDiff, fi, hi int, l diff.HunkLine) Target {
	n := l.Number()
	if n < 1 {
		return hunkTarget(files, fi, hi)
	}
	t := hunkTarget(files, fi, hi)
	t.Level = LevelLine
	t.Location = LineAt(n, SideOf(l.Type))
	return t
}

// Resolve maps a cursor row of the global layout to a comment target.
// Separator and header rows target their file, hunk header, expand and gap
// rows target the hunk, and line rows target the line. A cursor past the
// end, or an empty diff, yields a file-level target with no file.
func Resolve(files []diff.FileDiff, cursor int) Target {
	r, ok := diff.RowAt(files, cursor)
	if !ok {
		return noTarget()
	}

	switch r.Kind {
	case diff.RowSeparatorGap, diff.RowSeparatorRule, diff.RowOldPath, diff.RowNewPath, diff.RowFileGap:
		return fileTarget(files, r.File)
	case diff.RowHunkHeader, diff.RowExpandAbove, diff.RowExpandBelow, diff.RowHunkGap:
		return hunkTarget(files, r.File, r.Hunk)
	case diff.RowLine:
		l, _ := r.HunkLine(files)
		return lineTarget(files, r.File, r.Hunk, l)
	default:
		return noTarget()
	}
}

// ResolveSideRow maps a row of a file's side-by-side layout to a comment
// target. Pairs prefer the new side when both sides hold a line.
func ResolveSideRow(files []diff.FileDiff, file int, row diff.SideRow) Target {
	if file < 0 || file >= len(files) {
		return noTarget()
	}

	switch row.Kind {
	case diff.SidePair:
		switch {
		case row.Right != nil:
			return lineTarget(files, file, row.Hunk, *row.Right)
		case row.Left != nil:
			return lineTarget(files, file, row.Hunk, *row.Left)
		}
		return hunkTarget(files, file, row.Hunk)
	case diff.SideHeader, diff.SideGap:
		return hunkTarget(files, file, row.Hunk)
	default:
		return fileTarget(files, file)
	}
}
