package diff

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned by ParseBytes when the input is not text.
var ErrNotText = errors.New("diff output is not text")

// ParseBytes decodes raw diff output and parses it. Invalid UTF-8 sequences
// are replaced with U+FFFD; input containing NUL bytes is rejected.
func ParseBytes(raw []byte) ([]FileDiff, error) {
	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// Decode converts raw diff output to a string.
func Decode(raw []byte) (string, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", ErrNotText
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// Parse reads unified diff text into one FileDiff per file, in input order.
//
// Parse never fails. Lines it cannot interpret are skipped, and a hunk
// header without a space between its ranges is dropped together with the
// lines that follow it up to the next header.
func Parse(text string) []FileDiff {
	p := &parser{}
	for line := range strings.SplitSeq(text, "\n") {
		p.line(strings.TrimSuffix(line, "\r"))
	}
	p.flushFile()
	return p.files
}

type parser struct {
	files []FileDiff
	file  *FileDiff
	hunk  *Hunk

	oldLine, newLine int
	// remaining counts of the current hunk; while either is positive, lines
	// starting with "--- " or "+++ " are content, not headers.
	oldLeft, newLeft int
}

func (p *parser) inHunkBody() bool {
	return p.hunk != nil && (p.oldLeft > 0 || p.newLeft > 0)
}

func (p *parser) line(line string) {
	switch {
	case strings.HasPrefix(line, "diff --git "):
		p.flushFile()
		oldPath, newPath := splitGitHeader(line)
		p.file = &FileDiff{OldPath: oldPath, NewPath: newPath}
		return
	case !p.inHunkBody() && strings.HasPrefix(line, "--- "):
		if p.file == nil || len(p.file.Hunks) > 0 || p.hunk != nil {
			p.flushFile()
			p.file = &FileDiff{}
		}
		p.file.OldPath = trimPathPrefix(line[4:], "a/")
		return
	case !p.inHunkBody() && strings.HasPrefix(line, "+++ "):
		if p.file != nil {
			p.file.NewPath = trimPathPrefix(line[4:], "b/")
		}
		return
	case strings.HasPrefix(line, "@@"):
		if p.file == nil {
			return
		}
		p.flushHunk()
		h, ok := parseHunkHeader(line)
		if !ok {
			return
		}
		p.hunk = &h
		p.oldLine, p.newLine = h.OldStart, h.NewStart
		p.oldLeft, p.newLeft = h.OldLines, h.NewLines
		return
	}

	if p.hunk == nil || line == "" {
		return
	}

	content := line[1:]
	switch line[0] {
	case ' ':
		p.hunk.Lines = append(p.hunk.Lines, HunkLine{
			Type:       Context,
			OldLineNum: p.oldLine,
			NewLineNum: p.newLine,
			Content:    content,
		})
		p.oldLine++
		p.newLine++
		p.oldLeft--
		p.newLeft--
	case '+':
		p.hunk.Lines = append(p.hunk.Lines, HunkLine{
			Type:       Added,
			NewLineNum: p.newLine,
			Content:    content,
		})
		p.newLine++
		p.newLeft--
	case '-':
		p.hunk.Lines = append(p.hunk.Lines, HunkLine{
			Type:       Removed,
			OldLineNum: p.oldLine,
			Content:    content,
		})
		p.oldLine++
		p.oldLeft--
	}
}

func (p *parser) flushHunk() {
	if p.hunk != nil && p.file != nil {
		p.file.Hunks = append(p.file.Hunks, *p.hunk)
	}
	p.hunk = nil
	p.oldLeft, p.newLeft = 0, 0
}

func (p *parser) flushFile() {
	p.flushHunk()
	if p.file == nil {
		return
	}
	if n := len(p.file.Hunks); n > 0 {
		last := p.file.Hunks[n-1]
		p.file.NewFileLines = last.NewStart + last.NewLines
	}
	p.files = append(p.files, *p.file)
	p.file = nil
}

// parseHunkHeader reads "@@ -o[,ol] +n[,nl] @@ [section]". A missing count
// is 1; a number that does not parse falls back to start 0, count 1.
func parseHunkHeader(line string) (Hunk, bool) {
	rest := line[2:]
	if end := strings.Index(rest, "@@"); end >= 0 {
		rest = rest[:end]
	}

	rest = strings.TrimSpace(rest)
	oldPart, newPart, ok := strings.Cut(rest, " ")
	if !ok {
		return Hunk{}, false
	}

	h := Hunk{Header: line}
	h.OldStart, h.OldLines = parseRange(strings.TrimPrefix(oldPart, "-"))
	h.NewStart, h.NewLines = parseRange(strings.TrimPrefix(strings.TrimSpace(newPart), "+"))
	return h, true
}

func parseRange(s string) (start, count int) {
	startStr, countStr, hasCount := strings.Cut(s, ",")

	start, err := strconv.Atoi(startStr)
	if err != nil || start < 0 {
		start = 0
	}

	count = 1
	if hasCount {
		if n, err := strconv.Atoi(countStr); err == nil && n >= 0 {
			count = n
		}
	}
	return start, count
}

func trimPathPrefix(path, prefix string) string {
	// git appends a tab after paths containing spaces
	path, _, _ = strings.Cut(path, "\t")
	return strings.TrimPrefix(path, prefix)
}

// splitGitHeader extracts paths from "diff --git a/X b/Y". They are only a
// fallback for blocks without ---/+++ lines, so quoted or ambiguous paths
// resolve to empty strings.
func splitGitHeader(line string) (oldPath, newPath string) {
	rest := strings.TrimPrefix(line, "diff --git ")
	if !strings.HasPrefix(rest, "a/") {
		return "", ""
	}
	i := strings.LastIndex(rest, " b/")
	if i < 0 {
		return "", ""
	}
	return rest[2:i], rest[i+3:]
}
