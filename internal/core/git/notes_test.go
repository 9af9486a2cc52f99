package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewleech/git-review/pkg/executil"
)

const testRef = "refs/notes/git-review/main"

func TestExecutor_ReadNote(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"git notes": []byte(`{"commit_id":"abc"}` + "\n")},
		}
		text, ok, err := NewExecutor("git", "", rec).ReadNote(context.Background(), testRef, "abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"commit_id":"abc"}`, text)
		assert.Equal(t, []string{"git notes --ref=refs/notes/git-review/main show abc"}, rec.Lines())
	})

	t.Run("absent", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Errors: map[string]error{"git notes": exit1}}
		_, ok, err := NewExecutor("git", "", rec).ReadNote(context.Background(), testRef, "abc")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("failure", func(t *testing.T) {
		rec := &executil.RecordingExecutor{Errors: map[string]error{"git notes": exit128}}
		_, _, err := NewExecutor("git", "", rec).ReadNote(context.Background(), testRef, "abc")
		require.Error(t, err)
	})
}

func TestExecutor_WriteNote(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	e := NewExecutor("git", "/repo", rec)

	require.NoError(t, e.WriteNote(context.Background(), testRef, "abc", `{"comments":[]}`))

	require.Len(t, rec.Commands, 1)
	cmd := rec.Commands[0]
	assert.Equal(t, "/repo", cmd.Dir)
	assert.Equal(t, "git notes --ref=refs/notes/git-review/main add -f -F - abc", cmd.Line())
	assert.Equal(t, `{"comments":[]}`, cmd.Stdin)
}

func TestExecutor_DeleteNote(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"git notes": []byte("f00d\n")},
		}
		existed, err := NewExecutor("git", "", rec).DeleteNote(context.Background(), testRef, "abc")
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, []string{
			"git notes --ref=refs/notes/git-review/main list abc",
			"git notes --ref=refs/notes/git-review/main remove --ignore-missing abc",
		}, rec.Lines())
	})

	t.Run("missing", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Errors: map[string]error{"git notes --ref=refs/notes/git-review/main list": exit1},
		}
		existed, err := NewExecutor("git", "", rec).DeleteNote(context.Background(), testRef, "abc")
		require.NoError(t, err)
		assert.False(t, existed)
		assert.Len(t, rec.Commands, 1)
	})
}

func TestExecutor_ListNotedCommits(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"git notes": []byte("n1 c1\nn2 c2\n\ngarbage\n"),
		},
	}

	commits, err := NewExecutor("git", "", rec).ListNotedCommits(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, commits)

	empty := &executil.RecordingExecutor{}
	commits, err = NewExecutor("git", "", empty).ListNotedCommits(context.Background(), testRef)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestExecutor_DeleteNamespace(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"git notes --ref=refs/notes/git-review/main list": []byte("n1 c1\nn2 c2\n"),
		},
	}

	n, err := NewExecutor("git", "", rec).DeleteNamespace(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t,
		"git notes --ref=refs/notes/git-review/main remove --ignore-missing c1 c2",
		rec.Lines()[1],
	)

	none := &executil.RecordingExecutor{}
	n, err = NewExecutor("git", "", none).DeleteNamespace(context.Background(), testRef)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, none.Commands, 1)
}
