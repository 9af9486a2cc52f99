// Package comments models review comments, resolves cursor positions to
// comment locations, and persists comments as git notes.
package comments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for comment operations.
var (
	ErrEmptyComment    = errors.New("comment text is empty")
	ErrInvalidLocation = errors.New("invalid comment location")
)

// Level is the granularity a comment is attached at.
type Level string

const (
	LevelLine Level = "line"
	LevelHunk Level = "hunk"
	LevelFile Level = "file"
)

// Side is the side of the diff a line comment refers to.
type Side string

const (
	SideOld     Side = "old"     // removed line, numbered in the old file
	SideNew     Side = "new"     // added line, numbered in the new file
	SideContext Side = "context" // unchanged line
)

// LineType returns the diff line vocabulary used in exports.
func (s Side) LineType() string {
	switch s {
	case SideOld:
		return "removed"
	case SideNew:
		return "added"
	default:
		return "context"
	}
}

// Location is where a comment is attached. Kind selects which of the
// remaining fields are meaningful: Number and Side for line locations,
// Header for hunk locations, nothing for file locations.
type Location struct {
	Kind   Level
	Number int
	Side   Side
	Header string
}

// LineAt returns a line location.
func LineAt(number int, side Side) Location {
	return Location{Kind: LevelLine, Number: number, Side: side}
}

// HunkAt returns a hunk location keyed by the hunk's @@ header. Two hunks
// of one file with the same header share their comments.
func HunkAt(header string) Location {
	return Location{Kind: LevelHunk, Header: header}
}

// FileWide returns a file location.
func FileWide() Location {
	return Location{Kind: LevelFile}
}

// Validate checks that the fields required by Kind are set.
func (l Location) Validate() error {
	switch l.Kind {
	case LevelLine:
		if l.Number < 1 {
			return fmt.Errorf("%w: line number %d", ErrInvalidLocation, l.Number)
		}
		switch l.Side {
		case SideOld, SideNew, SideContext:
		default:
			return fmt.Errorf("%w: unknown side %q", ErrInvalidLocation, l.Side)
		}
	case LevelHunk:
		if l.Header == "" {
			return fmt.Errorf("%w: empty hunk header", ErrInvalidLocation)
		}
	case LevelFile:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidLocation, l.Kind)
	}
	return nil
}

// String describes the location for display, e.g. "Line 42 (new)".
func (l Location) String() string {
	switch l.Kind {
	case LevelLine:
		return fmt.Sprintf("Line %d (%s)", l.Number, l.Side)
	case LevelHunk:
		return "Hunk " + l.Header
	default:
		return "File"
	}
}

type lineJSON struct {
	Type   Level `json:"type"`
	Number int   `json:"number"`
	Side   Side  `json:"side"`
}

type hunkJSON struct {
	Type   Level  `json:"type"`
	Header string `json:"header"`
}

type fileJSON struct {
	Type Level `json:"type"`
}

// MarshalJSON encodes the location as an object tagged by "type".
func (l Location) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LevelLine:
		return json.Marshal(lineJSON{Type: LevelLine, Number: l.Number, Side: l.Side})
	case LevelHunk:
		return json.Marshal(hunkJSON{Type: LevelHunk, Header: l.Header})
	case LevelFile:
		return json.Marshal(fileJSON{Type: LevelFile})
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidLocation, l.Kind)
	}
}

// UnmarshalJSON decodes a location tagged by "type".
func (l *Location) UnmarshalJSON(data []byte) error {
	var tag fileJSON
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch tag.Type {
	case LevelLine:
		var v lineJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = LineAt(v.Number, v.Side)
	case LevelHunk:
		var v hunkJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = HunkAt(v.Header)
	case LevelFile:
		*l = FileWide()
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidLocation, tag.Type)
	}
	return nil
}

// Comment is a single review comment. Comments are never edited, only
// created and deleted.
type Comment struct {
	ID        string    `json:"id,omitempty"`
	Level     Level     `json:"level"`
	FilePath  string    `json:"file_path"`
	Location  Location  `json:"location"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a comment on path at loc. The level follows the location.
func New(path string, loc Location, text string, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmptyComment
	}
	if path == "" {
		return Comment{}, fmt.Errorf("%w: empty file path", ErrInvalidLocation)
	}
	if err := loc.Validate(); err != nil {
		return Comment{}, err
	}

	return Comment{
		ID:        uuid.NewString(),
		Level:     loc.Kind,
		FilePath:  path,
		Location:  loc,
		Text:      text,
		CreatedAt: now,
	}, nil
}

// CommitComments is every comment on one commit for one branch. It is the
// unit stored in a single git note.
type CommitComments struct {
	CommitID  string    `json:"commit_id"`
	Branch    string    `json:"branch"`
	Timestamp time.Time `json:"timestamp"`
	Comments  []Comment `json:"comments"`
}

// NewCommitComments returns an empty collection.
func NewCommitComments(commitID, branch string, now time.Time) *CommitComments {
	return &CommitComments{CommitID: commitID, Branch: branch, Timestamp: now, Comments: []Comment{}}
}

// Clone returns a copy whose comment slice can be modified independently.
func (c *CommitComments) Clone() *CommitComments {
	out := *c
	out.Comments = append([]Comment(nil), c.Comments...)
	return &out
}

func (c *CommitComments) Add(comment Comment) {
	c.Comments = append(c.Comments, comment)
}

// Remove deletes the comment at absolute index i.
func (c *CommitComments) Remove(i int) (Comment, bool) {
	if i < 0 || i >= len(c.Comments) {
		return Comment{}, false
	}
	removed := c.Comments[i]
	c.Comments = append(c.Comments[:i], c.Comments[i+1:]...)
	return removed, true
}

func (c *CommitComments) IsEmpty() bool {
	return len(c.Comments) == 0
}

// FileIndices returns the absolute indices of the comments on path, in order.
// Position in the result is the comment's display index for that file.
func (c *CommitComments) FileIndices(path string) []int {
	var out []int
	for i, cm := range c.Comments {
		if cm.FilePath == path {
			out = append(out, i)
		}
	}
	return out
}

// AtLine returns the line comments on path at number and side.
func (c *CommitComments) AtLine(path string, number int, side Side) []Comment {
	var out []Comment
	for _, cm := range c.Comments {
		if cm.FilePath == path && cm.Location.Kind == LevelLine &&
			cm.Location.Number == number && cm.Location.Side == side {
			out = append(out, cm)
		}
	}
	return out
}

// HasLine reports whether a line comment exists on path at number on any side.
func (c *CommitComments) HasLine(path string, number int) bool {
	for _, cm := range c.Comments {
		if cm.FilePath == path && cm.Location.Kind == LevelLine && cm.Location.Number == number {
			return true
		}
	}
	return false
}

// AtHunk returns the hunk comments on path whose header equals header.
func (c *CommitComments) AtHunk(path, header string) []Comment {
	var out []Comment
	for _, cm := range c.Comments {
		if cm.FilePath == path && cm.Location.Kind == LevelHunk && cm.Location.Header == header {
			out = append(out, cm)
		}
	}
	return out
}

// FileLevel returns the file-level comments on path.
func (c *CommitComments) FileLevel(path string) []Comment {
	var out []Comment
	for _, cm := range c.Comments {
		if cm.FilePath == path && cm.Location.Kind == LevelFile {
			out = append(out, cm)
		}
	}
	return out
}
