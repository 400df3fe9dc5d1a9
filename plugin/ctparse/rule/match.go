package rule

import (
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) over the input text.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// RuneLen returns the number of characters the span covers in text.
func (s Span) RuneLen(text string) int { return utf8.RuneCountInString(text[s.Start:s.End]) }

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// Match is one anchored hit of a registered pattern.
type Match struct {
	Span
	Pattern int
	Text    string

	groups map[string]string
}

// Group returns a named capture, or "" if the group did not participate.
func (m *Match) Group(name string) string { return m.groups[name] }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// boundaryAt reports whether position i separates two tokens: it is an edge
// of the text or at least one neighbouring character is not a letter or digit.
func boundaryAt(text string, i int) bool {
	if i <= 0 || i >= len(text) {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	next, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(prev) || !isWordRune(next)
}
