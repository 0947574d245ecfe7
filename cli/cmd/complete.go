package cmd

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions limits the names offered for an undefined one.
const maxSuggestions = 3

// suggest returns the candidates that best match name, best first.
func suggest(name string, candidates []string) []string {
	name = strings.ToLower(name)
	matches := fuzzy.Find(name, candidates)

	r := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(r) == maxSuggestions {
			break
		}

		if m.Str != name {
			r = append(r, m.Str)
		}
	}

	return r
}

// complete is a liner.WordCompleter over variable names, function names,
// and colon commands. pos is the cursor position in runes.
func (s *session) complete(line string, pos int) (head string, completions []string, tail string) {
	rs := []rune(line)
	start := pos
	for start > 0 && isWordRune(rs[start-1]) {
		start--
	}

	word := strings.ToLower(string(rs[start:pos]))
	head, tail = string(rs[:start]), string(rs[pos:])

	var candidates []string

	switch {
	case start == 1 && rs[0] == ':':
		head, word = "", ":"+word
		for _, c := range commands {
			candidates = append(candidates, ":"+c.name)
		}

	case word == "" || isDigit(rs[start]):
		return head, nil, tail

	default:
		ctx := s.eng.Context()
		candidates = ctx.Names()
		for _, f := range ctx.Funcs() {
			candidates = append(candidates, f+"(")
		}
	}

	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			completions = append(completions, c)
		}
	}

	if len(completions) == 0 {
		for _, m := range fuzzy.Find(word, candidates) {
			completions = append(completions, m.Str)
		}

		return head, completions, tail
	}

	slices.Sort(completions)

	return head, completions, tail
}

func isWordRune(r rune) bool {
	return r == '_' || isDigit(r) || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
