package executil

import (
	"context"
	"io"
	"strings"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir   string
	Cmd   string
	Args  []string
	Stdin string
}

// Line returns the command and its arguments joined by spaces.
func (c RecordedCommand) Line() string {
	return strings.Join(append([]string{c.Cmd}, c.Args...), " ")
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command lines to their output. The longest key that is
	// a word prefix of the executed command line wins, so "git" matches
	// every git call and "git notes --ref=x show" only that one.
	Outputs map[string][]byte

	// Errors maps command lines to their error, matched like Outputs.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", "", cmd, args...)
}

// RunDir records the command with directory and returns configured output/error.
func (e *RecordingExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.record(dir, "", cmd, args...)
}

// RunDirInput records the command along with everything read from in.
func (e *RecordingExecutor) RunDirInput(ctx context.Context, dir string, in io.Reader, cmd string, args ...string) ([]byte, error) {
	var stdin string
	if in != nil {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		stdin = string(data)
	}
	return e.record(dir, stdin, cmd, args...)
}

func (e *RecordingExecutor) record(dir, stdin, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rc := RecordedCommand{
		Dir:   dir,
		Cmd:   cmd,
		Args:  args,
		Stdin: stdin,
	}
	e.Commands = append(e.Commands, rc)

	words := strings.Fields(rc.Line())
	var out []byte
	var err error
	if v, ok := longestMatch(e.Outputs, words); ok {
		out = v
	}
	if v, ok := longestMatch(e.Errors, words); ok {
		err = v
	}

	return out, err
}

func longestMatch[V any](m map[string]V, words []string) (V, bool) {
	for n := len(words); n > 0; n-- {
		if v, ok := m[strings.Join(words[:n], " ")]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Lines returns every recorded command line in order.
func (e *RecordingExecutor) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.Commands))
	for _, c := range e.Commands {
		out = append(out, c.Line())
	}
	return out
}

// Reset clears recorded commands.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = nil
}
