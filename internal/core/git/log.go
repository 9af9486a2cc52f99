package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// logFormat is id, author, author time and raw message, one record per commit.
var logFormat = "--format=" + strings.Join([]string{"%H", "%an", "%at", "%B"}, "%x1f") + "%x1e"

// ListCommits returns the commits reachable from HEAD but not from base,
// newest first.
func (e *Executor) ListCommits(ctx context.Context, base string) ([]Commit, error) {
	return e.ListCommitsRange(ctx, base, "HEAD")
}

// ListCommitsRange returns the commits reachable from to but not from from,
// newest first.
func (e *Executor) ListCommitsRange(ctx context.Context, from, to string) ([]Commit, error) {
	out, err := e.run(ctx, "log", logFormat, from+".."+to, "--")
	if err != nil {
		return nil, fmt.Errorf("git log %s..%s: %w", from, to, err)
	}
	return parseLog(string(out))
}

func parseLog(out string) ([]Commit, error) {
	var commits []Commit
	for record := range strings.SplitSeq(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("parse git log: malformed record %q", record)
		}

		secs, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse git log: commit time %q: %w", fields[2], err)
		}

		message := strings.TrimSpace(fields[3])
		if message == "" {
			message = "<no message>"
		}
		author := fields[1]
		if author == "" {
			author = "<unknown>"
		}

		commits = append(commits, Commit{
			ID:      fields[0],
			ShortID: ShortID(fields[0]),
			Message: message,
			Author:  author,
			Time:    time.Unix(secs, 0),
		})
	}
	return commits, nil
}
