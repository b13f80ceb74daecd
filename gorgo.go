package earleygo

import "fmt"

// Span captures a half-open run of byte offsets [From, To) in some input
// string. token.TokenizeWithSpans reports one Span per emitted token, so
// callers that need source positions (for error messages, syntax
// highlighting, incremental reparsing) don't have to recompute them by
// re-scanning the input themselves.
type Span [2]int

// From returns the start offset of the span.
func (s Span) From() int { return s[0] }

// To returns the offset just behind the end of the span.
func (s Span) To() int { return s[1] }

// Len returns the length of the span.
func (s Span) Len() int { return s[1] - s[0] }

// IsNull reports whether the span is the zero span.
func (s Span) IsNull() bool { return s == Span{} }

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
