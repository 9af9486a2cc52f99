package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches_RemovedAndAddedLine(t *testing.T) {
	files := Parse(simpleDiff)

	matches := FindMatches(files, "line2")
	require.Len(t, matches, 2)

	removedRow, ok := RowForLine(files, 0, 0, 1)
	require.True(t, ok)
	addedRow, ok := RowForLine(files, 0, 0, 2)
	require.True(t, ok)

	assert.Equal(t, Match{Row: removedRow, Start: 0, End: 5}, matches[0])
	assert.Equal(t, Match{Row: addedRow, Start: 0, End: 5}, matches[1])
}

func TestFindMatches_CaseInsensitive(t *testing.T) {
	files := twoFiles()

	matches := FindMatches(files, "NEEDLE")
	assert.Equal(t, []Match{
		{Row: 11, Start: 7, End: 13},
		{Row: 21, Start: 0, End: 6},
		{Row: 21, Start: 7, End: 13},
	}, matches)
}

func TestFindMatches_Overlapping(t *testing.T) {
	files := []FileDiff{{
		OldPath: "x", NewPath: "x",
		Hunks: []Hunk{{Header: "@@ -1 +1 @@", Lines: []HunkLine{{Type: Added, NewLineNum: 1, Content: "aaaa"}}}},
	}}

	matches := FindMatches(files, "aa")
	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, 4, m.Row)
		assert.Equal(t, i, m.Start)
		assert.Equal(t, i+2, m.End)
	}
}

func TestFindMatches_PathsAndHeaders(t *testing.T) {
	files := twoFiles()

	matches := FindMatches(files, "b.go")
	assert.Equal(t, []Match{{Row: 16, Start: 0, End: 4}, {Row: 17, Start: 0, End: 4}}, matches)

	matches = FindMatches(files, "func tail")
	assert.Equal(t, []Match{{Row: 9, Start: 14, End: 23}}, matches)
}

func TestFindMatches_RuneOffsets(t *testing.T) {
	files := []FileDiff{{
		OldPath: "x", NewPath: "x",
		Hunks: []Hunk{{Header: "@@ -1 +1 @@", Lines: []HunkLine{{Type: Context, OldLineNum: 1, NewLineNum: 1, Content: "ÉÉ café"}}}},
	}}

	matches := FindMatches(files, "CAFÉ")
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].Start)
	assert.Equal(t, 7, matches[0].End)
}

// Every occurrence found by a direct scan of the rows must be reported.
func TestFindMatches_Completeness(t *testing.T) {
	files := twoFiles()
	for _, q := range []string{"a", "go", "@@", "x", "e"} {
		matches := FindMatches(files, q)
		found := map[[2]int]bool{}
		for _, m := range matches {
			found[[2]int{m.Row, m.Start}] = true
		}

		for r := range Rows(files) {
			text := []rune(r.Text(files))
			for col := 0; col+len(q) <= len(text); col++ {
				if strings.EqualFold(string(text[col:col+len(q)]), q) {
					assert.True(t, found[[2]int{r.Index, col}], "query %q row %d col %d", q, r.Index, col)
				}
			}
		}
	}
}

func TestFindMatches_Empty(t *testing.T) {
	assert.Empty(t, FindMatches(twoFiles(), ""))
	assert.Empty(t, FindMatches(nil, "x"))
}

func TestSearch_Navigation(t *testing.T) {
	var s Search
	n := s.Run(twoFiles(), "needle")
	require.Equal(t, 3, n)
	assert.True(t, s.Active())
	assert.Equal(t, "needle", s.Query())

	m, idx, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 11, m.Row)

	m, _ = s.Next()
	assert.Equal(t, Match{Row: 21, Start: 0, End: 6}, m)
	m, _ = s.Next()
	assert.Equal(t, Match{Row: 21, Start: 7, End: 13}, m)
	m, _ = s.Next()
	assert.Equal(t, 11, m.Row, "next wraps to the first match")

	m, _ = s.Prev()
	assert.Equal(t, Match{Row: 21, Start: 7, End: 13}, m, "prev wraps to the last match")
	m, _ = s.Prev()
	assert.Equal(t, Match{Row: 21, Start: 0, End: 6}, m)

	assert.Len(t, s.OnRow(21), 2)
	assert.Empty(t, s.OnRow(5))
}

func TestSearch_EmptyQueryClears(t *testing.T) {
	var s Search
	s.Run(twoFiles(), "needle")

	n := s.Run(twoFiles(), "")
	assert.Equal(t, 0, n)
	assert.False(t, s.Active())
	assert.Empty(t, s.Matches())
	_, _, ok := s.Current()
	assert.False(t, ok)

	_, ok = s.Next()
	assert.False(t, ok)
	_, ok = s.Prev()
	assert.False(t, ok)
}

func TestSearch_NoMatches(t *testing.T) {
	var s Search
	n := s.Run(twoFiles(), "absent")
	assert.Equal(t, 0, n)
	assert.True(t, s.Active(), "a query without matches stays active")
	_, _, ok := s.Current()
	assert.False(t, ok)
}
