package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// NoteStore is the git notes primitives comments are persisted with. A ref
// is a full notes ref such as refs/notes/git-review/main.
type NoteStore interface {
	// ReadNote returns the note on commit, and false when there is none.
	ReadNote(ctx context.Context, ref, commit string) (string, bool, error)
	// WriteNote replaces the note on commit.
	WriteNote(ctx context.Context, ref, commit, text string) error
	// DeleteNote removes the note on commit and reports whether one existed.
	DeleteNote(ctx context.Context, ref, commit string) (bool, error)
	// ListNotedCommits returns the commits that have a note under ref.
	ListNotedCommits(ctx context.Context, ref string) ([]string, error)
	// DeleteNamespace removes every note under ref and returns how many.
	DeleteNamespace(ctx context.Context, ref string) (int, error)
}

// Store reads and writes comment collections, one note per commit under
// the branch's notes ref. A collection is always written whole.
type Store struct {
	notes NoteStore
	log   zerolog.Logger
}

// NewStore returns a Store persisting through notes.
func NewStore(notes NoteStore, log zerolog.Logger) *Store {
	return &Store{notes: notes, log: log}
}

// Read returns the comments on commit for branch, and false when there are none.
func (s *Store) Read(ctx context.Context, commit, branch string) (*CommitComments, bool, error) {
	ref, err := NotesRef(branch)
	if err != nil {
		return nil, false, err
	}

	text, ok, err := s.notes.ReadNote(ctx, ref, commit)
	if err != nil {
		return nil, false, fmt.Errorf("read note for %s: %w", commit, err)
	}
	if !ok {
		return nil, false, nil
	}

	var cc CommitComments
	if err := json.Unmarshal([]byte(text), &cc); err != nil {
		return nil, false, fmt.Errorf("decode comments for %s: %w", commit, err)
	}
	if cc.Comments == nil {
		cc.Comments = []Comment{}
	}
	return &cc, true, nil
}

// Write replaces the note of cc's commit with the whole collection. An
// empty collection deletes the note instead.
func (s *Store) Write(ctx context.Context, cc *CommitComments) error {
	if cc.IsEmpty() {
		_, err := s.Delete(ctx, cc.CommitID, cc.Branch)
		return err
	}

	ref, err := NotesRef(cc.Branch)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode comments for %s: %w", cc.CommitID, err)
	}

	if err := s.notes.WriteNote(ctx, ref, cc.CommitID, string(data)); err != nil {
		return fmt.Errorf("write note for %s: %w", cc.CommitID, err)
	}

	s.log.Debug().
		Str("commit", cc.CommitID).
		Str("ref", ref).
		Int("comments", len(cc.Comments)).
		Msg("wrote comments")
	return nil
}

// Delete removes the note on commit and reports whether one existed.
func (s *Store) Delete(ctx context.Context, commit, branch string) (bool, error) {
	ref, err := NotesRef(branch)
	if err != nil {
		return false, err
	}

	existed, err := s.notes.DeleteNote(ctx, ref, commit)
	if err != nil {
		return false, fmt.Errorf("delete note for %s: %w", commit, err)
	}
	return existed, nil
}

// ListForBranch returns every comment collection stored for branch, oldest
// collection first. Notes that fail to decode are logged and skipped.
func (s *Store) ListForBranch(ctx context.Context, branch string) ([]CommitComments, error) {
	ref, err := NotesRef(branch)
	if err != nil {
		return nil, err
	}

	commits, err := s.notes.ListNotedCommits(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list notes under %s: %w", ref, err)
	}

	out := make([]CommitComments, 0, len(commits))
	for _, commit := range commits {
		cc, ok, err := s.Read(ctx, commit, branch)
		if err != nil {
			s.log.Warn().Err(err).Str("commit", commit).Msg("skipping unreadable comments")
			continue
		}
		if ok && !cc.IsEmpty() {
			out = append(out, *cc)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Clear deletes every comment collection of branch and returns how many
// were deleted.
func (s *Store) Clear(ctx context.Context, branch string) (int, error) {
	ref, err := NotesRef(branch)
	if err != nil {
		return 0, err
	}

	n, err := s.notes.DeleteNamespace(ctx, ref)
	if err != nil {
		return n, fmt.Errorf("clear %s: %w", ref, err)
	}
	s.log.Info().Str("ref", ref).Int("deleted", n).Msg("cleared comments")
	return n, nil
}
