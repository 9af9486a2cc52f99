package git

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewleech/git-review/pkg/executil"
)

func logRecord(id, author string, at int64, message string) string {
	return strings.Join([]string{id, author, strconv.FormatInt(at, 10), message}, fieldSep) + recordSep
}

func TestExecutor_ListCommits(t *testing.T) {
	out := logRecord("1111111111aaaa", "Ada", 1700000100, "Add parser\n\nLonger body\n") + "\n" +
		logRecord("2222222222bbbb", "", 1700000000, "")

	rec := &executil.RecordingExecutor{Outputs: map[string][]byte{"git log": []byte(out)}}
	commits, err := NewExecutor("git", "", rec).ListCommits(context.Background(), "main")
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, "1111111111aaaa", commits[0].ID)
	assert.Equal(t, "1111111", commits[0].ShortID)
	assert.Equal(t, "Ada", commits[0].Author)
	assert.Equal(t, "Add parser\n\nLonger body", commits[0].Message)
	assert.Equal(t, "Add parser", commits[0].Summary())
	assert.Equal(t, int64(1700000100), commits[0].Time.Unix())

	assert.Equal(t, "<unknown>", commits[1].Author)
	assert.Equal(t, "<no message>", commits[1].Message)

	require.Len(t, rec.Commands, 1)
	args := rec.Commands[0].Args
	assert.Equal(t, "log", args[0])
	assert.Equal(t, "main..HEAD", args[2])
}

func TestExecutor_ListCommitsRange(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	commits, err := NewExecutor("git", "", rec).ListCommitsRange(context.Background(), "v1", "v2")
	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.Equal(t, "v1..v2", rec.Commands[0].Args[2])
}

func TestParseLog_Malformed(t *testing.T) {
	_, err := parseLog("just one field" + recordSep)
	require.Error(t, err)

	_, err = parseLog(strings.Join([]string{"id", "a", "notatime", "msg"}, fieldSep) + recordSep)
	require.Error(t, err)
}
