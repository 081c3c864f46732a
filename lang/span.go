package lang

import "strings"

// span is a half-open byte range [lo, hi) into a source buffer.
type span struct {
	lo, hi int
}

func (s span) len() int { return s.hi - s.lo }

// text copies the bytes of s out of src so the result shares no storage
// with the source buffer.
func (s span) text(src string) string {
	if s.lo < 0 || s.hi > len(src) || s.lo >= s.hi {
		return ""
	}

	return strings.Clone(src[s.lo:s.hi])
}

// arena owns the text of every token produced while lexing one source.
// Tokens refer to their text by index, so a Token never exposes a view
// into the source buffer.
type arena struct {
	text []string
}

// intern stores s and returns its index.
func (a *arena) intern(s string) int {
	a.text = append(a.text, s)

	return len(a.text) - 1
}

// internSpan stores an independent copy of the bytes of s in src.
func (a *arena) internSpan(src string, s span) int {
	return a.intern(s.text(src))
}

func (a *arena) at(i int) string {
	if i < 0 || i >= len(a.text) {
		return ""
	}

	return a.text[i]
}

func (a *arena) len() int { return len(a.text) }
