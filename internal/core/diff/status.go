package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Annotate sets the Status of each file from the git extended headers in
// text (new/deleted file, rename, copy, mode, binary). Files are matched by
// path; files that cannot be matched keep their status.
func Annotate(files []FileDiff, text string) error {
	parsed, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("read extended headers: %w", err)
	}

	byPath := make(map[string]*gitdiff.File, len(parsed))
	for _, f := range parsed {
		name := f.NewName
		if f.IsDelete {
			name = f.OldName
		}
		byPath[name] = f
	}

	for i := range files {
		f, ok := byPath[files[i].Path()]
		if !ok {
			continue
		}
		files[i].Status = statusOf(f)
		if files[i].OldPath == "" && files[i].NewPath == "" {
			files[i].OldPath, files[i].NewPath = f.OldName, f.NewName
		}
	}
	return nil
}

func statusOf(f *gitdiff.File) FileStatus {
	switch {
	case f.IsBinary:
		return Binary
	case f.IsNew:
		return FileAdded
	case f.IsDelete:
		return FileDeleted
	case f.IsRename:
		return FileRenamed
	case f.IsCopy:
		return FileCopied
	case f.OldMode != 0 && f.NewMode != 0 && f.OldMode != f.NewMode && len(f.TextFragments) == 0:
		return ModeChanged
	default:
		return Modified
	}
}
