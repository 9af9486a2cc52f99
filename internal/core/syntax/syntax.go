// Package syntax colors source lines for display inside diff rows.
package syntax

import (
	"fmt"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/andrewleech/git-review/pkg/kv"
)

// Highlighter returns line with terminal color escapes for the language of
// the file at path. Implementations only change the foreground, so a
// background set around the result stays intact.
type Highlighter interface {
	Highlight(path, line string) string
}

// Plain is a Highlighter that returns lines unchanged.
type Plain struct{}

func (Plain) Highlight(_, line string) string { return line }

const (
	maxCachedLines = 4096
	maxLineLen     = 1000 // longer lines are returned unhighlighted
)

type lineKey struct {
	lexer string
	line  string
}

// Chroma highlights lines with chroma lexers and a chroma style. Each line
// is lexed on its own, so constructs spanning lines (block comments,
// multi-line strings) are colored as if they started on that line.
type Chroma struct {
	style  *chroma.Style
	lexers *kv.Store[string, chroma.Lexer]
	lines  *kv.Store[lineKey, string]
}

// New returns a highlighter using the named chroma style, falling back to
// chroma's default style for unknown names.
func New(theme string) *Chroma {
	return &Chroma{
		style:  styles.Get(theme),
		lexers: kv.New[string, chroma.Lexer](),
		lines:  kv.NewBounded[lineKey, string](maxCachedLines),
	}
}

// lexerFor picks a lexer by file name. Lookups are cached per extension,
// or per base name for files without one (Makefile, Dockerfile).
func (c *Chroma) lexerFor(p string) chroma.Lexer {
	base := path.Base(p)
	key := path.Ext(base)
	if key == "" {
		key = base
	}

	return c.lexers.GetOrSet(key, func() chroma.Lexer {
		l := lexers.Match(base)
		if l == nil {
			return nil
		}
		return chroma.Coalesce(l)
	})
}

// Highlight implements Highlighter.
func (c *Chroma) Highlight(p, line string) string {
	if line == "" || len(line) > maxLineLen {
		return line
	}

	lexer := c.lexerFor(p)
	if lexer == nil {
		return line
	}

	key := lineKey{lexer: lexer.Config().Name, line: line}
	return c.lines.GetOrSet(key, func() string {
		out, err := c.format(lexer, line)
		if err != nil {
			return line
		}
		return out
	})
}

func (c *Chroma) format(lexer chroma.Lexer, line string) (string, error) {
	it, err := lexer.Tokenise(nil, line)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(line) * 2)
	for tok := it(); tok != chroma.EOF; tok = it() {
		value := strings.TrimRight(tok.Value, "\n")
		if value == "" {
			continue
		}
		writeToken(&b, c.style.Get(tok.Type), value)
	}
	return b.String(), nil
}

// writeToken writes value wrapped in SGR sequences for the entry's
// foreground, bold and italic. Each attribute is reset individually.
func writeToken(b *strings.Builder, e chroma.StyleEntry, value string) {
	var open, closing []string
	if e.Colour.IsSet() {
		open = append(open, fmt.Sprintf("38;2;%d;%d;%d", e.Colour.Red(), e.Colour.Green(), e.Colour.Blue()))
		closing = append(closing, "39")
	}
	if e.Bold == chroma.Yes {
		open = append(open, "1")
		closing = append(closing, "22")
	}
	if e.Italic == chroma.Yes {
		open = append(open, "3")
		closing = append(closing, "23")
	}

	if len(open) == 0 {
		b.WriteString(value)
		return
	}
	b.WriteString("\x1b[" + strings.Join(open, ";") + "m")
	b.WriteString(value)
	b.WriteString("\x1b[" + strings.Join(closing, ";") + "m")
}
