package comments

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBranch is returned when a branch name cannot be turned into a
// notes ref.
var ErrInvalidBranch = errors.New("invalid branch name")

// NotesPrefix is the ref namespace all review notes live under.
const NotesPrefix = "refs/notes/git-review"

const maxBranchKeyLen = 200

// SanitizeBranch maps a branch name to a string usable as one ref path
// component. Letters, digits, '_' and '.' are kept; '/', '-', '\' and space
// become '-'; anything else becomes '_'. Runs of '-' collapse and leading
// or trailing '-' are trimmed.
//
// The key becomes a component of a notes ref, so keys git refuses as ref
// components are rejected too: a leading or trailing '.' left after
// mapping (e.g. "/.x" becomes ".x") and a ".lock" suffix.
func SanitizeBranch(branch string) (string, error) {
	switch {
	case branch == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidBranch)
	case strings.HasPrefix(branch, "-"), strings.HasPrefix(branch, "."),
		strings.HasSuffix(branch, "-"), strings.HasSuffix(branch, "."):
		return "", fmt.Errorf("%w: %q starts or ends with '-' or '.'", ErrInvalidBranch, branch)
	case strings.Contains(branch, ".."):
		return "", fmt.Errorf("%w: %q contains '..'", ErrInvalidBranch, branch)
	}

	var b strings.Builder
	b.Grow(len(branch))
	lastDash := false
	for _, r := range branch {
		var out rune
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
			out = r
		case r == '/', r == '-', r == '\\', r == ' ':
			out = '-'
		default:
			out = '_'
		}

		if out == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		b.WriteRune(out)
	}

	key := strings.Trim(b.String(), "-")
	if key == "" {
		return "", fmt.Errorf("%w: %q is empty after sanitizing", ErrInvalidBranch, branch)
	}
	if strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") || strings.HasSuffix(key, ".lock") {
		return "", fmt.Errorf("%w: %q does not form a valid ref", ErrInvalidBranch, branch)
	}
	if len(key) > maxBranchKeyLen {
		return "", fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidBranch, branch, maxBranchKeyLen)
	}
	return key, nil
}

// NotesRef returns the notes ref holding the comments of branch.
func NotesRef(branch string) (string, error) {
	key, err := SanitizeBranch(branch)
	if err != nil {
		return "", err
	}
	return NotesPrefix + "/" + key, nil
}
