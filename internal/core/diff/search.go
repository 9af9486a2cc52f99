package diff

import "strings"

// Match is a search hit: a row of the global layout and the character
// (rune) range of the hit within the row's text.
type Match struct {
	Row   int
	Start int
	End   int
}

// FindMatches returns every case-insensitive occurrence of query in the
// rows of files, overlapping occurrences included, ordered by row then
// column. An empty query matches nothing.
func FindMatches(files []FileDiff, query string) []Match {
	needle := []rune(strings.ToLower(query))
	if len(needle) == 0 {
		return nil
	}

	var matches []Match
	for r := range Rows(files) {
		text := r.Text(files)
		if text == "" {
			continue
		}
		hay := []rune(strings.ToLower(text))
		for start := 0; start+len(needle) <= len(hay); {
			pos := indexRunes(hay[start:], needle)
			if pos < 0 {
				break
			}
			at := start + pos
			matches = append(matches, Match{Row: r.Index, Start: at, End: at + len(needle)})
			start = at + 1
		}
	}
	return matches
}

func indexRunes(hay, needle []rune) int {
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if hay[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// Search holds the results of the last query and the selected match.
type Search struct {
	query   string
	matches []Match
	current int
}

// Run searches files for query and selects the first match. An empty query
// clears the search without scanning. It returns the number of matches.
func (s *Search) Run(files []FileDiff, query string) int {
	if query == "" {
		s.Clear()
		return 0
	}
	s.query = query
	s.matches = FindMatches(files, query)
	s.current = -1
	if len(s.matches) > 0 {
		s.current = 0
	}
	return len(s.matches)
}

// Clear drops the query and all matches.
func (s *Search) Clear() {
	s.query = ""
	s.matches = nil
	s.current = -1
}

// Active reports whether a query is set.
func (s *Search) Active() bool {
	return s.query != ""
}

func (s *Search) Query() string {
	return s.query
}

func (s *Search) Matches() []Match {
	return s.matches
}

// Current returns the selected match and its zero-based position.
func (s *Search) Current() (Match, int, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return Match{}, -1, false
	}
	return s.matches[s.current], s.current, true
}

// Next selects the following match, wrapping from the last to the first.
func (s *Search) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// Prev selects the preceding match, wrapping from the first to the last.
func (s *Search) Prev() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	if s.current <= 0 {
		s.current = len(s.matches) - 1
	} else {
		s.current--
	}
	return s.matches[s.current], true
}

// OnRow returns the matches that fall on row.
func (s *Search) OnRow(row int) []Match {
	var out []Match
	for _, m := range s.matches {
		if m.Row == row {
			out = append(out, m)
		}
		if m.Row > row {
			break
		}
	}
	return out
}
