package segment

import "strings"

// BreakKind describes what to render before a span.
type BreakKind int

const (
	// BreakNone renders the span flush against the previous one. Used for
	// the first span and for adjacent spans with no gap text between them.
	BreakNone BreakKind = iota
	// BreakSoft renders a single line break before the span.
	BreakSoft
	// BreakParagraph renders a blank line before the span.
	BreakParagraph
)

// BreakBefore decides how to visually separate spans[i] from its
// predecessor by inspecting the gap text between the previous span's end and
// this span's start on the same side. Two or more consecutive newlines in
// the gap make a paragraph break; any other non-empty gap is a soft break.
//
// The decision is per side: source and translated paragraph structure are
// independent and may diverge. Breaks are purely visual; offsets are never
// altered.
func BreakBefore(flat []rune, spans []Span, i int) BreakKind {
	if i <= 0 || i >= len(spans) {
		return BreakNone
	}

	gap := GapText(flat, spans[i-1], spans[i])
	if gap == "" {
		return BreakNone
	}
	if countConsecutiveNewlines(gap) >= 2 {
		return BreakParagraph
	}
	return BreakSoft
}

// GapText returns the flat-text substring between two consecutive spans.
// Gaps are uncovered by any segment: whitespace and paragraph separators the
// segmenter left between units.
func GapText(flat []rune, prev, cur Span) string {
	if prev.End >= cur.Start || prev.End < 0 || cur.Start > len(flat) {
		return ""
	}
	return string(flat[prev.End:cur.Start])
}

// countConsecutiveNewlines returns the longest run of '\n' in s, ignoring
// other whitespace between them ("\n  \n" counts as 2, matching the
// segmenter's treatment of whitespace-only gap lines).
func countConsecutiveNewlines(s string) int {
	best, run := 0, 0
	for _, r := range s {
		switch {
		case r == '\n':
			run++
			if run > best {
				best = run
			}
		case r == ' ' || r == '\t' || r == '\r':
			// whitespace between newlines does not reset the run
		default:
			run = 0
		}
	}
	return best
}

// SpanLines splits a span's own text on embedded newlines. Each embedded
// newline is a soft break within the segment; text is never concatenated or
// retokenized.
func SpanLines(s Span) []string {
	return strings.Split(s.Text, "\n")
}
