// Package executil provides command execution utilities.
package executil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// ExitError reports a failed command. Stderr holds the first 500 bytes the
// command wrote to stderr, trimmed. Code is the exit code, or -1 when the
// command did not run to completion.
type ExitError struct {
	Cmd    string
	Dir    string
	Stderr string
	Code   int
	Err    error
}

func (e *ExitError) Error() string {
	var b strings.Builder
	b.WriteString("exec ")
	b.WriteString(e.Cmd)
	if e.Dir != "" {
		b.WriteString(" in ")
		b.WriteString(e.Dir)
	}
	b.WriteString(": ")
	if e.Stderr != "" {
		b.WriteString(e.Stderr)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, or -1 when err does not
// come from a command that exited.
func ExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return -1
}

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its stdout.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunDir executes a command in a specific directory.
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
	// RunDirInput executes a command in a specific directory with stdin
	// read from in.
	RunDirInput(ctx context.Context, dir string, in io.Reader, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command and returns its stdout.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return run(ctx, "", nil, cmd, args...)
}

// RunDir executes a command in a specific directory.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return run(ctx, dir, nil, cmd, args...)
}

// RunDirInput executes a command in a specific directory, feeding in to stdin.
func (e *RealExecutor) RunDirInput(ctx context.Context, dir string, in io.Reader, cmd string, args ...string) ([]byte, error) {
	return run(ctx, dir, in, cmd, args...)
}

// run keeps stdout as the result and folds the start of stderr into the
// error, so diff text never mixes with warnings. The original error is
// wrapped so callers can inspect exit codes.
func run(ctx context.Context, dir string, in io.Reader, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = dir
	c.Stdin = in

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		code := -1
		var xe *exec.ExitError
		if errors.As(err, &xe) {
			code = xe.ExitCode()
		}
		return stdout.Bytes(), &ExitError{
			Cmd:    cmd,
			Dir:    dir,
			Stderr: strings.TrimSpace(stderr.String()),
			Code:   code,
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}
