// Package reviewtest provides an in-memory repository for tests that drive
// a review session.
package reviewtest

import (
	"context"
	"errors"
	"maps"
	"slices"
)

// ErrWrite is returned by mutating note calls while FailWrites is set.
var ErrWrite = errors.New("write failed")

// DiffCall records one GenerateDiff request.
type DiffCall struct {
	Commit  string
	Context int
}

// Repo serves canned diffs per commit and keeps notes in memory, keyed by
// ref then commit.
type Repo struct {
	Diffs      map[string]string
	DiffErr    error
	Calls      []DiffCall
	Notes      map[string]map[string]string
	FailWrites bool
}

// NewRepo returns a Repo serving diffs.
func NewRepo(diffs map[string]string) *Repo {
	return &Repo{Diffs: diffs, Notes: make(map[string]map[string]string)}
}

func (r *Repo) GenerateDiff(_ context.Context, commit string, n int) ([]byte, error) {
	r.Calls = append(r.Calls, DiffCall{Commit: commit, Context: n})
	if r.DiffErr != nil {
		return nil, r.DiffErr
	}
	return []byte(r.Diffs[commit]), nil
}

func (r *Repo) ReadNote(_ context.Context, ref, commit string) (string, bool, error) {
	text, ok := r.Notes[ref][commit]
	return text, ok, nil
}

func (r *Repo) WriteNote(_ context.Context, ref, commit, text string) error {
	if r.FailWrites {
		return ErrWrite
	}
	if r.Notes[ref] == nil {
		r.Notes[ref] = make(map[string]string)
	}
	r.Notes[ref][commit] = text
	return nil
}

func (r *Repo) DeleteNote(_ context.Context, ref, commit string) (bool, error) {
	if r.FailWrites {
		return false, ErrWrite
	}
	_, ok := r.Notes[ref][commit]
	delete(r.Notes[ref], commit)
	return ok, nil
}

func (r *Repo) ListNotedCommits(_ context.Context, ref string) ([]string, error) {
	return slices.Sorted(maps.Keys(r.Notes[ref])), nil
}

func (r *Repo) DeleteNamespace(_ context.Context, ref string) (int, error) {
	if r.FailWrites {
		return 0, ErrWrite
	}
	n := len(r.Notes[ref])
	delete(r.Notes, ref)
	return n, nil
}

// TwoFiles is a diff of a.go and b.go with a vendor/ file between them.
// With vendor/** ignored, its inline layout is:
//
//	 0-2   a.go header rows
//	 3     @@ -1,3 +1,3 @@
//	 4-7   package a / -var x = 1 / +var x = 2 / func f() {}
//	 8     hunk gap
//	 9-11  separator
//	12-14  b.go header rows
//	15     @@ -10,2 +10,3 @@ func g() {
//	16     expand above
//	17-19  keep / +added / tail
//	20     hunk gap
const TwoFiles = `diff --git a/a.go b/a.go
index 1111111..2222222 100644
--- a/a.go
+++ b/a.go
@@ -1,3 +1,3 @@
 package a
-var x = 1
+var x = 2
 func f() {}
diff --git a/vendor/lib.go b/vendor/lib.go
index 3333333..4444444 100644
--- a/vendor/lib.go
+++ b/vendor/lib.go
@@ -1 +1 @@
-old
+new
diff --git a/b.go b/b.go
index 5555555..6666666 100644
--- a/b.go
+++ b/b.go
@@ -10,2 +10,3 @@ func g() {
 keep
+added
 tail
`
