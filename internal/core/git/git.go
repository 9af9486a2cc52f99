// Package git provides the repository operations git-review needs, run
// through the git command-line tool.
package git

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoBaseBranch is returned when none of the base branch candidates
	// exist in the repository.
	ErrNoBaseBranch = errors.New("could not find base branch; tried main, master (with upstream tracking), origin/main, origin/master")

	// ErrInvalidRange is returned by ParseRange for malformed ranges.
	ErrInvalidRange = errors.New("invalid commit range")
)

// Commit is one entry of the commit log.
type Commit struct {
	ID      string
	ShortID string
	Message string
	Author  string
	Time    time.Time
}

// Summary returns the first line of the commit message.
func (c Commit) Summary() string {
	first, _, _ := strings.Cut(c.Message, "\n")
	return first
}

// RelativeTime describes how long before now the commit was made.
func (c Commit) RelativeTime(now time.Time) string {
	return RelativeTime(now.Sub(c.Time))
}

// RelativeTime formats an age as "just now", "5 minutes ago", "2 days ago"
// and so on. Months are 30 days and years 365.
func RelativeTime(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		month = 30 * day
		year  = 365 * day
	)

	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int64(d/time.Minute), "minute")
	case d < day:
		return plural(int64(d/time.Hour), "hour")
	case d < month:
		return plural(int64(d/day), "day")
	case d < year:
		return plural(int64(d/month), "month")
	default:
		return plural(int64(d/year), "year")
	}
}

// ParseRange splits "A..B" into its endpoints. A single ref X is the range
// X..HEAD. Symmetric ranges ("A...B") and empty endpoints are rejected.
func ParseRange(s string) (from, to string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidRange)
	}
	if strings.Contains(s, "...") {
		return "", "", fmt.Errorf("%w: %q: symmetric ranges are not supported", ErrInvalidRange, s)
	}

	from, to, found := strings.Cut(s, "..")
	if !found {
		return s, "HEAD", nil
	}
	if from == "" || to == "" || strings.Contains(to, "..") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return from, to, nil
}

// ShortID abbreviates a commit id to seven characters.
func ShortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
