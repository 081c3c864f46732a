package repl

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlPrefix starts a control word.
const ctrlPrefix = ":"

// ctrlWords are the REPL control words, without their prefix.
var ctrlWords = []string{"help", "list", "clear", "quit"}

// wordBounds returns the whitespace-delimited word containing the cursor and
// its byte offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && !unicode.IsSpace(rune(input[start-1])) {
		start--
	}

	end = cursor
	for end < len(input) && !unicode.IsSpace(rune(input[end])) {
		end++
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for the word at start: control
// words for a leading ':', command names for the first word of a line, and
// nothing for arguments.
func candidates(input string, start int, names []string) []string {
	if strings.TrimSpace(input[:start]) != "" {
		return nil
	}

	if strings.HasPrefix(input[start:], ctrlPrefix) {
		words := make([]string, len(ctrlWords))
		for i, w := range ctrlWords {
			words[i] = ctrlPrefix + w
		}

		return words
	}

	return names
}

// complete ranks the candidates matching the word under the cursor, best
// first.
func complete(input string, cursor int, names []string) (
	matches fuzzy.Matches,
	start, end int,
) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	cands := candidates(input, start, names)
	if len(cands) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, cands), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
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
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && i < len(matches)-1 && used+entryWidth+ellipsisWidth > width {
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

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
