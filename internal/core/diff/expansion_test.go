package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHunk_AvailableLinesAbove(t *testing.T) {
	tests := []struct {
		name     string
		old, new int
		want     int
		canAbove bool
	}{
		{name: "both at ten", old: 10, new: 10, want: 9, canAbove: true},
		{name: "sides differ", old: 4, new: 12, want: 3, canAbove: true},
		{name: "top of file", old: 1, new: 1, want: 0, canAbove: false},
		{name: "new file", old: 0, new: 1, want: 0, canAbove: false},
		{name: "only new side moved", old: 1, new: 5, want: 0, canAbove: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hunk{OldStart: tt.old, NewStart: tt.new}
			assert.Equal(t, tt.want, h.AvailableLinesAbove())
			assert.Equal(t, tt.canAbove, h.CanExpandAbove())
		})
	}
}

func TestHunk_CanExpandBelow(t *testing.T) {
	h := Hunk{NewStart: 10, NewLines: 5}
	assert.True(t, h.CanExpandBelow(20))
	assert.False(t, h.CanExpandBelow(15))
	assert.False(t, h.CanExpandBelow(0))
}

func TestContextWindow(t *testing.T) {
	w := NewContextWindow(8, 8)
	assert.Equal(t, 8, w.Current)
	assert.False(t, w.Expanded())

	assert.Equal(t, 16, w.Expand())
	assert.Equal(t, 24, w.Expand())
	assert.True(t, w.Expanded())

	assert.Equal(t, 8, w.Reset())
	assert.False(t, w.Expanded())
}

// fakeUnified produces a one-hunk diff of a 100 line file where line 50
// changed, with n lines of context, the way git would.
func fakeUnified(n int) string {
	const changed, length = 50, 100
	first := max(changed-n, 1)
	last := min(changed+n, length)
	count := last - first + 1

	var b strings.Builder
	b.WriteString("diff --git a/f.txt b/f.txt\n--- a/f.txt\n+++ b/f.txt\n")
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", first, count, first, count)
	for i := first; i <= last; i++ {
		if i == changed {
			fmt.Fprintf(&b, "-line %d\n+line %d changed\n", i, i)
			continue
		}
		fmt.Fprintf(&b, " line %d\n", i)
	}
	return b.String()
}

func TestContextWindow_ResetRestoresBoundaries(t *testing.T) {
	w := NewContextWindow(8, 8)
	fresh := Parse(fakeUnified(w.Current))

	for range 4 {
		expanded := Parse(fakeUnified(w.Expand()))
		require.Len(t, expanded[0].Hunks, 1)
		assert.Greater(t, len(expanded[0].Hunks[0].Lines), len(fresh[0].Hunks[0].Lines))
	}

	again := Parse(fakeUnified(w.Reset()))
	assert.Equal(t, fresh, again)
}
