package components

import "strings"

const maxCachedPad = 256

// padCache holds strings of 0..maxCachedPad spaces as slices of one buffer.
var padCache = strings.Repeat(" ", maxCachedPad)

// Pad returns a string of n spaces.
func Pad(n int) string {
	switch {
	case n <= 0:
		return ""
	case n <= maxCachedPad:
		return padCache[:n]
	default:
		return strings.Repeat(" ", n)
	}
}
