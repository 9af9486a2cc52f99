package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	assert.Equal(t, "", Pad(-1))
	assert.Equal(t, "", Pad(0))
	assert.Equal(t, "   ", Pad(3))
	assert.Len(t, Pad(maxCachedPad), maxCachedPad)
	assert.Len(t, Pad(maxCachedPad+10), maxCachedPad+10)
}

func TestHelpDialog_View(t *testing.T) {
	d := NewHelpDialog("Keys", []HelpDialogSection{
		{Title: "Navigation", Entries: []HelpEntry{{Key: "j", Desc: "down"}}},
		{Title: "Comments", Entries: []HelpEntry{{Key: "c", Desc: "comment"}}},
	})

	out := ansi.Strip(d.View())
	for _, want := range []string{"Keys", "Navigation", "Comments", "down", "comment", "esc/? close"} {
		assert.Contains(t, out, want)
	}
}

func TestOverlay_KeepsBackgroundSize(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 20)+"\n", 6), "\n")
	out := ansi.Strip(Overlay(bg, "XX", 20, 6))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[2], "XX")
}

func TestConfirmModal(t *testing.T) {
	tests := []struct {
		key           rune
		wantConfirmed bool
		wantCancelled bool
	}{
		{key: 'y', wantConfirmed: true},
		{key: 'Y', wantConfirmed: true},
		{key: 'n', wantCancelled: true},
		{key: 'x'},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			m := NewConfirmModal("Delete comment?")
			m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tt.key, Text: string(tt.key)}))

			assert.Equal(t, tt.wantConfirmed, m.Confirmed())
			assert.Equal(t, tt.wantCancelled, m.Cancelled())
			assert.Equal(t, tt.wantConfirmed || tt.wantCancelled, m.Done())
		})
	}
}

func TestConfirmModal_View(t *testing.T) {
	out := ansi.Strip(NewConfirmModal("Delete comment?").View())
	assert.Equal(t, "Delete comment? (y/n)", out)
}
