package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleDiff = "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n line1\n-line2\n+line2 modified\n line3\n"

func TestParse_SingleHunk(t *testing.T) {
	files := Parse(simpleDiff)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "f", f.OldPath)
	assert.Equal(t, "f", f.NewPath)
	require.Len(t, f.Hunks, 1)

	h := f.Hunks[0]
	assert.Equal(t, "@@ -1,3 +1,3 @@", h.Header)
	require.Len(t, h.Lines, 4)

	types := make([]LineType, 0, len(h.Lines))
	for _, l := range h.Lines {
		types = append(types, l.Type)
	}
	assert.Equal(t, []LineType{Context, Removed, Added, Context}, types)

	assert.Equal(t, HunkLine{Type: Context, OldLineNum: 1, NewLineNum: 1, Content: "line1"}, h.Lines[0])
	assert.Equal(t, HunkLine{Type: Removed, OldLineNum: 2, Content: "line2"}, h.Lines[1])
	assert.Equal(t, HunkLine{Type: Added, NewLineNum: 2, Content: "line2 modified"}, h.Lines[2])
	assert.Equal(t, HunkLine{Type: Context, OldLineNum: 3, NewLineNum: 3, Content: "line3"}, h.Lines[3])

	assert.Equal(t, 4, f.NewFileLines)
}

func TestParse_MultipleFiles(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/one.go b/one.go",
		"index 111..222 100644",
		"--- a/one.go",
		"+++ b/one.go",
		"@@ -10,2 +10,3 @@ func one() {",
		" a",
		"+b",
		" c",
		"@@ -40,1 +41,1 @@",
		"-x",
		"+y",
		"diff --git a/two.go b/two.go",
		"--- a/two.go",
		"+++ b/two.go",
		"@@ -1 +1 @@",
		"-old",
		"+new",
		"",
	}, "\n")

	files := Parse(text)
	require.Len(t, files, 2)

	assert.Equal(t, "one.go", files[0].NewPath)
	require.Len(t, files[0].Hunks, 2)
	assert.Equal(t, "@@ -10,2 +10,3 @@ func one() {", files[0].Hunks[0].Header)
	assert.Equal(t, 10, files[0].Hunks[0].OldStart)
	assert.Equal(t, 3, files[0].Hunks[0].NewLines)
	assert.Equal(t, 42, files[0].NewFileLines, "every file gets a length estimate, not only the last")

	second := files[1].Hunks[0]
	assert.Equal(t, 1, second.OldLines, "missing count defaults to 1")
	assert.Equal(t, 1, second.NewLines)
	assert.Equal(t, 2, files[1].NewFileLines)
}

func TestParse_LineNumbersAdvancePerSide(t *testing.T) {
	text := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -5,4 +7,5 @@\n ctx\n-r1\n-r2\n+a1\n+a2\n+a3\n ctx2\n"
	h := Parse(text)[0].Hunks[0]

	want := []HunkLine{
		{Type: Context, OldLineNum: 5, NewLineNum: 7, Content: "ctx"},
		{Type: Removed, OldLineNum: 6, Content: "r1"},
		{Type: Removed, OldLineNum: 7, Content: "r2"},
		{Type: Added, NewLineNum: 8, Content: "a1"},
		{Type: Added, NewLineNum: 9, Content: "a2"},
		{Type: Added, NewLineNum: 10, Content: "a3"},
		{Type: Context, OldLineNum: 8, NewLineNum: 11, Content: "ctx2"},
	}
	assert.Equal(t, want, h.Lines)
}

func TestParse_DropsHeaderWithoutSpace(t *testing.T) {
	text := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -1,2+1,2 @@\n a\n-b\n+c\n@@ -9,1 +9,1 @@\n-x\n+y\n"

	files := Parse(text)
	require.Len(t, files, 1)
	require.Len(t, files[0].Hunks, 1, "the malformed hunk and its lines are dropped")
	assert.Equal(t, 9, files[0].Hunks[0].OldStart)
}

func TestParse_UnparseableNumbersFallBack(t *testing.T) {
	files := Parse("diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -x,y +3,z @@\n+a\n")
	require.Len(t, files[0].Hunks, 1)

	h := files[0].Hunks[0]
	assert.Equal(t, 0, h.OldStart)
	assert.Equal(t, 1, h.OldLines)
	assert.Equal(t, 3, h.NewStart)
	assert.Equal(t, 1, h.NewLines)
}

func TestParse_SkipsUnprefixedLines(t *testing.T) {
	text := "diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -1,1 +1,1 @@\n-a\n\\ No newline at end of file\n+b\n\\ No newline at end of file\n"
	h := Parse(text)[0].Hunks[0]
	require.Len(t, h.Lines, 2)
	assert.Equal(t, "a", h.Lines[0].Content)
	assert.Equal(t, "b", h.Lines[1].Content)
}

func TestParse_RemovedLineLookingLikeHeader(t *testing.T) {
	text := "diff --git a/f.sql b/f.sql\n--- a/f.sql\n+++ b/f.sql\n@@ -1,2 +1,1 @@\n--- comment\n keep\n"
	files := Parse(text)
	require.Len(t, files, 1)
	assert.Equal(t, "f.sql", files[0].OldPath)

	h := files[0].Hunks[0]
	require.Len(t, h.Lines, 2)
	assert.Equal(t, HunkLine{Type: Removed, OldLineNum: 1, Content: "-- comment"}, h.Lines[0])
}

func TestParse_CRLF(t *testing.T) {
	text := strings.ReplaceAll(simpleDiff, "\n", "\r\n")
	h := Parse(text)[0].Hunks[0]
	assert.Equal(t, "line2 modified", h.Lines[2].Content)
	assert.Equal(t, "@@ -1,3 +1,3 @@", h.Header)
}

func TestParse_PathsFromGitHeader(t *testing.T) {
	text := "diff --git a/bin/tool b/bin/tool\nold mode 100644\nnew mode 100755\n"
	files := Parse(text)
	require.Len(t, files, 1)
	assert.Equal(t, "bin/tool", files[0].OldPath)
	assert.Equal(t, "bin/tool", files[0].NewPath)
	assert.Empty(t, files[0].Hunks)
	assert.Equal(t, 0, files[0].NewFileLines)
}

func TestParse_NewAndDeletedFiles(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/added.txt b/added.txt",
		"new file mode 100644",
		"--- /dev/null",
		"+++ b/added.txt",
		"@@ -0,0 +1,2 @@",
		"+one",
		"+two",
		"diff --git a/gone.txt b/gone.txt",
		"deleted file mode 100644",
		"--- a/gone.txt",
		"+++ /dev/null",
		"@@ -1 +0,0 @@",
		"-bye",
	}, "\n")

	files := Parse(text)
	require.Len(t, files, 2)
	assert.Equal(t, DevNull, files[0].OldPath)
	assert.Equal(t, "added.txt", files[0].Path())
	assert.Equal(t, DevNull, files[1].NewPath)
	assert.Equal(t, "gone.txt", files[1].Path())
}

func TestParse_PlainUnifiedDiff(t *testing.T) {
	text := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n--- a/y\n+++ b/y\n@@ -1 +1 @@\n-c\n+d\n"
	files := Parse(text)
	require.Len(t, files, 2)
	assert.Equal(t, "x", files[0].NewPath)
	assert.Equal(t, "y", files[1].NewPath)
}

func TestParse_EmptyAndGarbage(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("not a diff\nat all\n"))
	assert.Empty(t, Parse("@@ -1 +1 @@\n+orphan\n"), "hunks outside a file are ignored")
}

func TestParseBytes(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		files, err := ParseBytes([]byte(simpleDiff))
		require.NoError(t, err)
		assert.Len(t, files, 1)
	})

	t.Run("invalid utf8 is replaced", func(t *testing.T) {
		raw := []byte("diff --git a/f b/f\n--- a/f\n+++ b/f\n@@ -1 +1 @@\n-caf\xe9\n+cafe\n")
		files, err := ParseBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, "caf�", files[0].Hunks[0].Lines[0].Content)
	})

	t.Run("nul bytes are rejected", func(t *testing.T) {
		_, err := ParseBytes([]byte("diff --git a/f b/f\x00"))
		assert.ErrorIs(t, err, ErrNotText)
	})
}

// formatHunk renders a hunk back to unified diff text.
func formatHunk(h Hunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	for _, l := range h.Lines {
		b.WriteByte(l.Type.Prefix())
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParse_HunkRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		start [2]int
		types []LineType
	}{
		{name: "pure add", start: [2]int{0, 1}, types: []LineType{Added, Added, Added}},
		{name: "pure remove", start: [2]int{4, 3}, types: []LineType{Removed, Removed}},
		{name: "replace", start: [2]int{10, 10}, types: []LineType{Context, Removed, Removed, Added, Context}},
		{name: "interleaved", start: [2]int{7, 9}, types: []LineType{Added, Context, Removed, Context, Added, Added}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hunk{OldStart: tt.start[0], NewStart: tt.start[1]}
			for i, lt := range tt.types {
				h.Lines = append(h.Lines, HunkLine{Type: lt, Content: fmt.Sprintf("line %d", i)})
				if lt != Added {
					h.OldLines++
				}
				if lt != Removed {
					h.NewLines++
				}
			}

			files := Parse("diff --git a/f b/f\n--- a/f\n+++ b/f\n" + formatHunk(h))
			require.Len(t, files, 1)
			require.Len(t, files[0].Hunks, 1)

			got := files[0].Hunks[0]
			assert.Equal(t, h.OldStart, got.OldStart)
			assert.Equal(t, h.OldLines, got.OldLines)
			assert.Equal(t, h.NewStart, got.NewStart)
			assert.Equal(t, h.NewLines, got.NewLines)
			require.Len(t, got.Lines, len(h.Lines))

			var oldCount, newCount int
			for _, l := range got.Lines {
				if l.Type != Added {
					oldCount++
				}
				if l.Type != Removed {
					newCount++
				}
			}
			assert.Equal(t, got.OldLines, oldCount)
			assert.Equal(t, got.NewLines, newCount)
		})
	}
}
