package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// matchParen finds the parenthesis matching the one at pos. ok is false if
// the rune at pos is not a parenthesis; match is -1 if it has no partner.
func matchParen(line []rune, pos int) (match int, ok bool) {
	if pos < 0 || pos >= len(line) {
		return -1, false
	}

	var step int

	switch line[pos] {
	case '(':
		step = 1
	case ')':
		step = -1
	default:
		return -1, false
	}

	depth := 0

	for i := pos; i >= 0 && i < len(line); i += step {
		switch line[i] {
		case '(':
			depth += step
		case ')':
			depth -= step
		}

		if depth == 0 {
			return i, true
		}
	}

	return -1, true
}

// parenStyles returns the styles of the parenthesis under or just before the
// cursor and of its partner, keyed by rune index. A matched pair is green, an
// unmatched parenthesis red.
func parenStyles(line []rune, cursor int) map[int]lipgloss.Style {
	for _, pos := range []int{cursor, cursor - 1} {
		match, ok := matchParen(line, pos)
		if !ok {
			continue
		}

		if match < 0 {
			return map[int]lipgloss.Style{pos: unmatchStyle}
		}

		return map[int]lipgloss.Style{pos: matchStyle, match: matchStyle}
	}

	return nil
}

// highlightLine renders line with the parenthesis pair at the cursor styled.
// With showCursor set, the rune under the cursor is drawn in reverse video.
func highlightLine(line []rune, cursor int, showCursor bool) string {
	styles := parenStyles(line, cursor)

	var b strings.Builder

	for i, r := range line {
		style, ok := styles[i]
		if !ok {
			style = inputStyle
		}

		if showCursor && i == cursor {
			style = style.Inherit(cursorStyle)
		}

		b.WriteString(style.Render(string(r)))
	}

	if showCursor && cursor >= len(line) {
		b.WriteString(cursorStyle.Render(" "))
	}

	return b.String()
}

// parenPainter implements readline.Painter.
type parenPainter struct{}

// Paint highlights the parenthesis pair at the cursor.
func (parenPainter) Paint(line []rune, pos int) []rune {
	if parenStyles(line, pos) == nil {
		return line
	}

	return []rune(highlightLine(line, pos, false))
}
