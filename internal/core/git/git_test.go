package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in       string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{in: "main..feature", wantFrom: "main", wantTo: "feature"},
		{in: "HEAD~3..HEAD", wantFrom: "HEAD~3", wantTo: "HEAD"},
		{in: "origin/main", wantFrom: "origin/main", wantTo: "HEAD"},
		{in: " v1.0..v2.0 ", wantFrom: "v1.0", wantTo: "v2.0"},
		{in: "", wantErr: true},
		{in: "..HEAD", wantErr: true},
		{in: "main..", wantErr: true},
		{in: "a...b", wantErr: true},
		{in: "a..b..c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			from, to, err := ParseRange(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestRelativeTime(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		age  time.Duration
		want string
	}{
		{age: 0, want: "just now"},
		{age: 59 * time.Second, want: "just now"},
		{age: time.Minute, want: "1 minute ago"},
		{age: 5 * time.Minute, want: "5 minutes ago"},
		{age: 3 * time.Hour, want: "3 hours ago"},
		{age: 2 * day, want: "2 days ago"},
		{age: 45 * day, want: "1 month ago"},
		{age: 200 * day, want: "6 months ago"},
		{age: 800 * day, want: "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.age))
		})
	}
}

func TestCommit_Summary(t *testing.T) {
	c := Commit{Message: "First line\nSecond line\nThird line"}
	assert.Equal(t, "First line", c.Summary())

	c = Commit{Message: "Single line message"}
	assert.Equal(t, "Single line message", c.Summary())
}

func TestCommit_RelativeTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := Commit{Time: now.Add(-90 * time.Minute)}
	assert.Equal(t, "1 hour ago", c.RelativeTime(now))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456", ShortID("0123456789abcdef"))
	assert.Equal(t, "abc", ShortID("abc"))
}
