package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/complexpr/lang"
)

// isIdentRune reports whether r may appear in an identifier. '$' begins the
// names of special forms.
func isIdentRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits between
// two non-identifier characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// wordBefore returns the identifier ending at the cursor, the word completed
// by the line-oriented front-end.
func wordBefore(line []rune, pos int) string {
	start := pos
	for start > 0 && isIdentRune(line[start-1]) {
		start--
	}

	return string(line[start:pos])
}

// candidates returns every bound name plus the special forms, in order.
func (s *session) candidates() []string {
	names := s.keys()
	names = append(names, lang.SpecialForms...)
	names = append(names, "$ctx")

	slices.Sort(names)

	return slices.Compact(names)
}

// callable reports whether name is bound to a function or names a special
// form.
func (s *session) callable(name string) bool {
	if slices.Contains(lang.SpecialForms, name) {
		return true
	}

	v, ok := s.lookup(name)
	if !ok {
		return false
	}

	t := v.Type()

	return t == lang.TypeFunction || t == lang.TypeLambda
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches so that the hint line stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.cursorByte())

	// A leading ':' in eval mode names a command.
	command := m.mode == modeCtrl ||
		(wordStart == 1 && strings.HasPrefix(input, ":"))

	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if command {
		candidates = ctrlCommands
	} else {
		candidates = m.session.candidates()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// plainCompleter implements readline.AutoCompleter with prefix matches over
// the session's names, in sorted order.
type plainCompleter struct{ session *session }

// Do returns the suffixes completing the identifier before pos.
func (c plainCompleter) Do(line []rune, pos int) ([][]rune, int) {
	word := wordBefore(line, pos)

	var out [][]rune

	for _, name := range c.session.candidates() {
		if strings.HasPrefix(name, word) {
			out = append(out, []rune(name[len(word):]))
		}
	}

	return out, utf8.RuneCountInString(word)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	callable func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, callable(match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables are displayed with a "()" suffix that is not part of
// the completion.
func renderCandidate(match fuzzy.Match, selected, callable bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
