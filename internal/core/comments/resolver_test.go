package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewleech/git-review/internal/core/diff"
)

// reviewFiles lays out as 24 rows: a.go at rows 0-12 and b.go at 13-23.
func reviewFiles() []diff.FileDiff {
	return []diff.FileDiff{
		{
			OldPath:      "a.go",
			NewPath:      "a.go",
			NewFileLines: 41,
			Hunks: []diff.Hunk{
				{
					OldStart: 10, OldLines: 2, NewStart: 10, NewLines: 2,
					Header: "@@ -10,2 +10,2 @@",
					Lines: []diff.HunkLine{
						{Type: diff.Context, OldLineNum: 10, NewLineNum: 10, Content: "x"},
						{Type: diff.Context, OldLineNum: 11, NewLineNum: 11, Content: "y"},
					},
				},
				{
					OldStart: 40, OldLines: 1, NewStart: 40, NewLines: 1,
					Header: "@@ -40 +40 @@ func Tail()",
					Lines: []diff.HunkLine{
						{Type: diff.Context, OldLineNum: 40, NewLineNum: 40, Content: "return"},
					},
				},
			},
		},
		{
			OldPath:      "b.go",
			NewPath:      "b.go",
			NewFileLines: 2,
			Hunks: []diff.Hunk{
				{
					OldStart: 1, OldLines: 2, NewStart: 1, NewLines: 2,
					Header: "@@ -1,2 +1,2 @@",
					Lines: []diff.HunkLine{
						{Type: diff.Removed, OldLineNum: 1, Content: "old"},
						{Type: diff.Added, NewLineNum: 1, Content: "new"},
						{Type: diff.Context, OldLineNum: 2, NewLineNum: 2, Content: "keep"},
					},
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	files := reviewFiles()

	tests := []struct {
		name   string
		cursor int
		want   Target
	}{
		{
			name:   "old path row",
			cursor: 0,
			want:   Target{Level: LevelFile, File: 0, Path: "a.go", Location: FileWide(), Hunk: -1},
		},
		{
			name:   "file gap row",
			cursor: 2,
			want:   Target{Level: LevelFile, File: 0, Path: "a.go", Location: FileWide(), Hunk: -1},
		},
		{
			name:   "hunk header",
			cursor: 3,
			want: Target{
				Level: LevelHunk, File: 0, Path: "a.go",
				Location: HunkAt("@@ -10,2 +10,2 @@"), Hunk: 0, HunkHeader: "@@ -10,2 +10,2 @@",
			},
		},
		{
			name:   "expand above",
			cursor: 4,
			want: Target{
				Level: LevelHunk, File: 0, Path: "a.go",
				Location: HunkAt("@@ -10,2 +10,2 @@"), Hunk: 0, HunkHeader: "@@ -10,2 +10,2 @@",
			},
		},
		{
			name:   "context line",
			cursor: 5,
			want: Target{
				Level: LevelLine, File: 0, Path: "a.go",
				Location: LineAt(10, SideContext), Hunk: 0, HunkHeader: "@@ -10,2 +10,2 @@",
			},
		},
		{
			name:   "expand below",
			cursor: 7,
			want: Target{
				Level: LevelHunk, File: 0, Path: "a.go",
				Location: HunkAt("@@ -10,2 +10,2 @@"), Hunk: 0, HunkHeader: "@@ -10,2 +10,2 @@",
			},
		},
		{
			name:   "separator rule belongs to next file",
			cursor: 14,
			want:   Target{Level: LevelFile, File: 1, Path: "b.go", Location: FileWide(), Hunk: -1},
		},
		{
			name:   "removed line",
			cursor: 20,
			want: Target{
				Level: LevelLine, File: 1, Path: "b.go",
				Location: LineAt(1, SideOld), Hunk: 0, HunkHeader: "@@ -1,2 +1,2 @@",
			},
		},
		{
			name:   "added line",
			cursor: 21,
			want: Target{
				Level: LevelLine, File: 1, Path: "b.go",
				Location: LineAt(1, SideNew), Hunk: 0, HunkHeader: "@@ -1,2 +1,2 @@",
			},
		},
		{
			name:   "past the end",
			cursor: 99,
			want:   Target{Level: LevelFile, File: -1, Location: FileWide(), Hunk: -1},
		},
		{
			name:   "negative",
			cursor: -1,
			want:   Target{Level: LevelFile, File: -1, Location: FileWide(), Hunk: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(files, tt.cursor))
		})
	}
}

func TestResolve_NoFiles(t *testing.T) {
	got := Resolve(nil, 0)
	assert.False(t, got.HasFile())
	assert.Equal(t, LevelFile, got.Level)
}

func TestResolveSideRow(t *testing.T) {
	files := reviewFiles()
	rows := diff.Window(&files[1], 0, 10)

	// header, replace pair, context pair, gap
	if assert.Len(t, rows, 4) {
		header := ResolveSideRow(files, 1, rows[0])
		assert.Equal(t, LevelHunk, header.Level)
		assert.Equal(t, "@@ -1,2 +1,2 @@", header.HunkHeader)

		pair := ResolveSideRow(files, 1, rows[1])
		assert.Equal(t, LevelLine, pair.Level)
		assert.Equal(t, LineAt(1, SideNew), pair.Location)

		ctx := ResolveSideRow(files, 1, rows[2])
		assert.Equal(t, LineAt(2, SideContext), ctx.Location)

		gap := ResolveSideRow(files, 1, rows[3])
		assert.Equal(t, LevelHunk, gap.Level)
	}

	removedOnly := diff.SideRow{Kind: diff.SidePair, Hunk: 0, Left: &files[1].Hunks[0].Lines[0]}
	assert.Equal(t, LineAt(1, SideOld), ResolveSideRow(files, 1, removedOnly).Location)

	assert.False(t, ResolveSideRow(files, 5, rows[0]).HasFile())
}

func TestSideOf(t *testing.T) {
	assert.Equal(t, SideNew, SideOf(diff.Added))
	assert.Equal(t, SideOld, SideOf(diff.Removed))
	assert.Equal(t, SideContext, SideOf(diff.Context))
}
