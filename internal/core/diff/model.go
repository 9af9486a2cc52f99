// Package diff parses unified diffs and derives the views the review UI is
// built from: a global row layout shared by cursor, scroll, and search, a
// side-by-side alignment of each file, and a search index.
package diff

// LineType is the kind of a line inside a hunk.
type LineType int

const (
	Context LineType = iota // unchanged line, prefixed with a space
	Added                   // prefixed with +
	Removed                 // prefixed with -
)

func (t LineType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "context"
	}
}

// Prefix returns the unified diff marker for the line type.
func (t LineType) Prefix() byte {
	switch t {
	case Added:
		return '+'
	case Removed:
		return '-'
	default:
		return ' '
	}
}

// HunkLine is a single line of a hunk. Line numbers are 1-based; 0 means the
// line does not exist on that side.
type HunkLine struct {
	Type       LineType
	OldLineNum int
	NewLineNum int
	Content    string
}

// Number returns the line number a comment on this line is anchored to:
// the new side for added lines, the old side for removed lines, and the new
// side (falling back to old) for context.
func (l HunkLine) Number() int {
	switch l.Type {
	case Added:
		return l.NewLineNum
	case Removed:
		return l.OldLineNum
	default:
		if l.NewLineNum > 0 {
			return l.NewLineNum
		}
		return l.OldLineNum
	}
}

// Hunk is one @@ block of a file diff. Header is the verbatim @@ line and is
// used as the identity of the hunk for hunk-level comments.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Header   string
	Lines    []HunkLine
}

// AvailableLinesAbove estimates how many more context lines exist above the
// hunk on both sides.
func (h Hunk) AvailableLinesAbove() int {
	return max(min(h.OldStart, h.NewStart)-1, 0)
}

// CanExpandAbove reports whether the hunk does not start at the top of the file.
func (h Hunk) CanExpandAbove() bool {
	return h.OldStart > 1 || h.NewStart > 1
}

// CanExpandBelow reports whether the new side of the hunk ends before
// fileLines. A fileLines of 0 means unknown and never offers expansion.
func (h Hunk) CanExpandBelow(fileLines int) bool {
	return h.NewStart+h.NewLines < fileLines
}

// FileStatus describes what happened to a file in a diff.
type FileStatus int

const (
	Modified FileStatus = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
	ModeChanged
	Binary
)

func (s FileStatus) String() string {
	switch s {
	case FileAdded:
		return "added"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	case FileCopied:
		return "copied"
	case ModeChanged:
		return "mode changed"
	case Binary:
		return "binary"
	default:
		return "modified"
	}
}

// DevNull is the path git uses for the missing side of an added or deleted file.
const DevNull = "/dev/null"

// FileDiff is the diff of a single file.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk

	// NewFileLines estimates the length of the new file from the extent of
	// the last hunk. Zero when unknown. It only gates "expand below".
	NewFileLines int

	Status FileStatus
}

// Path returns the path comments on this file are keyed by: the new path,
// or the old path when the file was deleted.
func (f FileDiff) Path() string {
	if f.NewPath == "" || f.NewPath == DevNull {
		return f.OldPath
	}
	return f.NewPath
}

// Stats counts added and removed lines across all hunks.
func (f FileDiff) Stats() (added, removed int) {
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case Added:
				added++
			case Removed:
				removed++
			}
		}
	}
	return added, removed
}
