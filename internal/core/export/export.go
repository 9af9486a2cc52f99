// Package export renders the stored comments of a branch as Markdown or
// JSON.
package export

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andrewleech/git-review/internal/core/comments"
	"github.com/andrewleech/git-review/internal/core/git"
)

// Format is an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" and "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
	}
}

// Options control an export.
type Options struct {
	Branch string
	// Messages maps commit IDs to commit messages. Commits without an
	// entry are exported without a message.
	Messages map[string]string
	Now      time.Time
}

const dateLayout = "2006-01-02 15:04:05"

// Markdown renders list as a review document. Files are sorted by path and
// each file lists line comments, then hunk comments, then file comments.
func Markdown(list []comments.CommitComments, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Code Review: %s\n\n", opts.Branch)
	fmt.Fprintf(&b, "Exported: %s\n\n", opts.Now.Local().Format(dateLayout))

	if len(list) == 0 {
		b.WriteString("No comments found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Total commits with comments: %d\n\n", len(list))
	b.WriteString("---\n\n")

	for _, cc := range list {
		fmt.Fprintf(&b, "## Commit: %s\n\n", git.ShortID(cc.CommitID))
		if msg := summary(opts.Messages[cc.CommitID]); msg != "" {
			fmt.Fprintf(&b, "%s\n\n", msg)
		}
		fmt.Fprintf(&b, "Date: %s\n\n", cc.Timestamp.Local().Format(dateLayout))

		for _, f := range groupByFile(cc.Comments) {
			fmt.Fprintf(&b, "### %s\n\n", f.path)
			for _, c := range byLevel(f.comments) {
				if c.Location.Kind == comments.LevelFile {
					b.WriteString("#### File-level Comment\n\n")
				} else {
					fmt.Fprintf(&b, "#### %s\n\n", c.Location)
				}
				fmt.Fprintf(&b, "**Comment:** %s\n\n", c.Text)
			}
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}

// Data is the JSON export document.
type Data struct {
	Branch     string   `json:"branch"`
	ExportedAt string   `json:"exported_at"`
	Commits    []Commit `json:"commits"`
}

type Commit struct {
	ID        string  `json:"id"`
	Message   *string `json:"message"`
	Timestamp string  `json:"timestamp"`
	Files     []File  `json:"files"`
}

type File struct {
	Path     string    `json:"path"`
	Comments []Comment `json:"comments"`
}

type Comment struct {
	Level      string `json:"level"`
	Line       int    `json:"line,omitempty"`
	LineType   string `json:"line_type,omitempty"`
	HunkHeader string `json:"hunk_header,omitempty"`
	Text       string `json:"text"`
	CreatedAt  string `json:"created_at"`
}

// Document builds the JSON export document for list. Comments keep their
// stored order within a file.
func Document(list []comments.CommitComments, opts Options) Data {
	data := Data{
		Branch:     opts.Branch,
		ExportedAt: opts.Now.Format(time.RFC3339),
		Commits:    make([]Commit, 0, len(list)),
	}

	for _, cc := range list {
		commit := Commit{
			ID:        cc.CommitID,
			Timestamp: cc.Timestamp.Format(time.RFC3339),
			Files:     []File{},
		}
		if msg, ok := opts.Messages[cc.CommitID]; ok {
			commit.Message = &msg
		}

		for _, f := range groupByFile(cc.Comments) {
			file := File{Path: f.path, Comments: make([]Comment, 0, len(f.comments))}
			for _, c := range f.comments {
				file.Comments = append(file.Comments, toComment(c))
			}
			commit.Files = append(commit.Files, file)
		}

		data.Commits = append(data.Commits, commit)
	}

	return data
}

// JSON renders list as indented JSON.
func JSON(list []comments.CommitComments, opts Options) ([]byte, error) {
	return json.MarshalIndent(Document(list, opts), "", "  ")
}

func toComment(c comments.Comment) Comment {
	out := Comment{
		Level:     string(c.Location.Kind),
		Text:      c.Text,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}

	switch c.Location.Kind {
	case comments.LevelLine:
		out.Line = c.Location.Number
		out.LineType = c.Location.Side.LineType()
	case comments.LevelHunk:
		out.HunkHeader = c.Location.Header
	case comments.LevelFile:
	}
	return out
}

type fileGroup struct {
	path     string
	comments []comments.Comment
}

func groupByFile(list []comments.Comment) []fileGroup {
	idx := make(map[string]int)
	var groups []fileGroup
	for _, c := range list {
		i, ok := idx[c.FilePath]
		if !ok {
			i = len(groups)
			idx[c.FilePath] = i
			groups = append(groups, fileGroup{path: c.FilePath})
		}
		groups[i].comments = append(groups[i].comments, c)
	}

	slices.SortFunc(groups, func(a, b fileGroup) int {
		return cmp.Compare(a.path, b.path)
	})
	return groups
}

func levelRank(l comments.Level) int {
	switch l {
	case comments.LevelLine:
		return 0
	case comments.LevelHunk:
		return 1
	default:
		return 2
	}
}

func byLevel(list []comments.Comment) []comments.Comment {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b comments.Comment) int {
		return cmp.Compare(levelRank(a.Location.Kind), levelRank(b.Location.Kind))
	})
	return out
}

func summary(msg string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(first)
}
