package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/vac/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "history", "verify", "clear", "quit"}

// isWordBoundary reports whether r cannot appear in an identifier.
// Operators, delimiters, and whitespace all end a word.
func isWordBoundary(r rune) bool {
	return r != '_' &&
		(r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9')
}

// wordBounds returns the identifier under the cursor and its byte offsets in
// input. The word is empty when the cursor follows a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	if i := strings.LastIndexFunc(input[:cursor], isWordBoundary); i >= 0 {
		_, size := utf8.DecodeRuneInString(input[i:])
		start = i + size
	}

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBoundary); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// identifiers returns the distinct identifier names appearing in lines,
// most recently used first. Lines that do not lex are skipped.
func identifiers(lines []string) []string {
	var names []string

	seen := make(map[string]struct{})

	for _, line := range slices.Backward(lines) {
		tokens, err := lang.Lex(line)
		if err != nil {
			continue
		}

		for _, t := range tokens {
			if t.Kind != lang.KindIdent {
				continue
			}

			if _, ok := seen[t.Text]; ok {
				continue
			}

			seen[t.Text] = struct{}{}
			names = append(names, t.Text)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. An empty word never matches, which leaves the
// hint line visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.idents
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	// A word that begins with a digit is a number, not an identifier.
	if m.mode == modeEval && word[0] >= '0' && word[0] <= '9' {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar lays out matches on one line of at most width cells,
// ending with an ellipsis when they do not all fit. The selected candidate
// is highlighted while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)
	parts := make([]string, 0, len(matches))

	for i, match := range matches {
		part := renderCandidate(match, tabActive && i == suggIdx)

		if len(parts) > 0 {
			room -= lipgloss.Width(sep)
		}

		if room -= lipgloss.Width(part); room < 0 && len(parts) > 0 {
			parts = append(parts, ellipsis)

			break
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, sep)
}

// renderCandidate styles match.Str, marking the characters matched by the
// completion query.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, marked := suggestionStyle, matchStyle
	if selected {
		plain, marked = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	pending := match.MatchedIndexes

	for i, r := range match.Str {
		style := plain
		if len(pending) > 0 && pending[0] == i {
			style, pending = marked, pending[1:]
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}
