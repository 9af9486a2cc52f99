// Package jsoncolor colors indented JSON for terminal output.
package jsoncolor

import (
	"bytes"
	"encoding/json"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/andrewleech/git-review/internal/core/styles"
)

type kind int

const (
	kindSpace kind = iota
	kindPunct
	kindKey
	kindString
	kindNumber
	kindBool
	kindNull
)

type token struct {
	kind kind
	text string
}

// Theme holds the style of each JSON token class.
type Theme struct {
	Punct  lipgloss.Style
	Key    lipgloss.Style
	String lipgloss.Style
	Number lipgloss.Style
	Bool   lipgloss.Style
	Null   lipgloss.Style
}

// PaletteTheme builds a Theme from the active color palette.
func PaletteTheme() Theme {
	return Theme{
		Punct:  lipgloss.NewStyle().Foreground(styles.ColorMuted),
		Key:    lipgloss.NewStyle().Foreground(styles.ColorPrimary),
		String: lipgloss.NewStyle().Foreground(styles.ColorSuccess),
		Number: lipgloss.NewStyle().Foreground(styles.ColorWarning),
		Bool:   lipgloss.NewStyle().Foreground(styles.ColorSecondary),
		Null:   lipgloss.NewStyle().Foreground(styles.ColorError),
	}
}

func (t Theme) render(tok token) string {
	switch tok.kind {
	case kindPunct:
		return t.Punct.Render(tok.text)
	case kindKey:
		return t.Key.Render(tok.text)
	case kindString:
		return t.String.Render(tok.text)
	case kindNumber:
		return t.Number.Render(tok.text)
	case kindBool:
		return t.Bool.Render(tok.text)
	case kindNull:
		return t.Null.Render(tok.text)
	default:
		return tok.text
	}
}

// Colorize indents data and styles every token with theme. Data that is
// not valid JSON is returned unchanged.
func Colorize(data []byte, theme Theme) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}

	var out strings.Builder
	for _, tok := range lex(buf.String()) {
		out.WriteString(theme.render(tok))
	}
	return out.String()
}

// lex splits valid JSON into tokens. Strings followed by a colon are keys.
func lex(s string) []token {
	var toks []token
	for i := 0; i < len(s); {
		var tok token
		switch c := s[i]; {
		case isSpace(c):
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			tok = token{kindSpace, s[i:j]}
		case strings.IndexByte("{}[]:,", c) >= 0:
			tok = token{kindPunct, s[i : i+1]}
		case c == '"':
			j := stringEnd(s, i)
			tok = token{kindString, s[i:j]}
			if strings.HasPrefix(strings.TrimLeft(s[j:], " "), ":") {
				tok.kind = kindKey
			}
		case strings.HasPrefix(s[i:], "true"):
			tok = token{kindBool, "true"}
		case strings.HasPrefix(s[i:], "false"):
			tok = token{kindBool, "false"}
		case strings.HasPrefix(s[i:], "null"):
			tok = token{kindNull, "null"}
		default:
			j := i + 1
			for j < len(s) && !isSpace(s[j]) && strings.IndexByte("{}[]:,", s[j]) < 0 {
				j++
			}
			tok = token{kindNumber, s[i:j]}
		}
		toks = append(toks, tok)
		i += len(tok.text)
	}
	return toks
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

// stringEnd returns the index just past the closing quote of the string
// starting at pos.
func stringEnd(s string, pos int) int {
	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(s)
}
