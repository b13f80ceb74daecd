/*
Package token implements a greedy, ordered-match regex tokenizer.

A Tokenizer holds an ordered list of token types. Tokenizing a string walks
the input from left to right; at every position the registered types are
tried in the order they were added, and the first whose pattern matches at
that position wins — this is first-match-wins, not longest-match. Callers
are responsible for ordering more specific patterns before more general
ones.

Each token type carries a Formatter, one of:

  - a FormatterFunc, receiving the matched text and its capture groups and
    returning either the emitted token value or the Drop sentinel;
  - a Template string containing %N placeholders for capture group N
    (0 is the whole match);
  - nil, meaning identity (the matched text is emitted unchanged).
*/
package token

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/earley-go/earleygo"
)

// tracer traces with key 'earleygo.token'.
func tracer() tracing.Trace {
	return tracing.Select("earleygo.token")
}

// dropSignal is the unique type of the Drop sentinel value: a dedicated
// tag beats an in-band magic value a caller's formatter could collide
// with.
type dropSignal struct{}

// Drop is returned by a FormatterFunc to signal that the matched text
// should not produce a token.
var Drop = dropSignal{}

// FormatterFunc formats a match into a token value, or returns Drop.
type FormatterFunc func(matched string, groups []string) interface{}

// Type registers one token pattern together with its formatter. Construct
// one with AddType rather than directly; the zero value is not usable.
type Type struct {
	pattern   *regexp.Regexp
	formatter interface{} // FormatterFunc, Template(string), or nil (identity)
}

// Template is a formatter that expands %N placeholders with capture group
// N of the match (0 is the whole match). Literal text is copied through
// unchanged; a '%' not followed by a digit is preserved literally, as is a
// reference to a capture group that does not exist in the match.
type Template string

// Tokenizer holds an ordered set of token types and tokenizes strings
// against them.
type Tokenizer struct {
	types []Type
}

// New creates an empty Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// AddType registers a token type. pattern is anchored at the start of the
// remaining input before storage (a '^' is prepended if not already
// present); the caller's regex value itself is never mutated, since
// regexp.Regexp does not expose its source for in-place editing — a new
// compiled pattern is stored instead.
//
// formatter must be a FormatterFunc, a Template, or nil.
func (t *Tokenizer) AddType(pattern *regexp.Regexp, formatter interface{}) error {
	if pattern == nil {
		return fmt.Errorf("token: AddType requires a non-nil pattern")
	}
	switch formatter.(type) {
	case nil, FormatterFunc, Template:
		// ok
	default:
		return fmt.Errorf("token: AddType formatter must be a FormatterFunc, a Template, or nil, got %T", formatter)
	}
	anchored, err := anchorAtStart(pattern)
	if err != nil {
		return fmt.Errorf("token: cannot anchor pattern %q: %w", pattern.String(), err)
	}
	t.types = append(t.types, Type{pattern: anchored, formatter: formatter})
	tracer().Debugf("token: registered type %q", pattern.String())
	return nil
}

// anchorAtStart returns a pattern equivalent to src but anchored so that it
// only matches at the beginning of the string passed to it. The caller's
// regexp value is left untouched; a fresh one is compiled.
func anchorAtStart(src *regexp.Regexp) (*regexp.Regexp, error) {
	s := src.String()
	if strings.HasPrefix(s, "^") {
		return regexp.Compile(s)
	}
	return regexp.Compile("^(?:" + s + ")")
}

// Failure is returned by Tokenize when no registered type matches at some
// input position; it is a distinguishable failure, not a partial result.
type Failure struct {
	Pos int // byte offset in the input where matching got stuck
}

func (f *Failure) Error() string {
	return fmt.Sprintf("token: no type matches input at position %d", f.Pos)
}

// Tokenize repeatedly matches registered types against the remaining input,
// first-match-wins in insertion order, and returns the resulting token
// sequence. If no type matches at some position, tokenization fails as a
// whole and returns a *Failure (not a partial result).
func (t *Tokenizer) Tokenize(input string) ([]interface{}, error) {
	var out []interface{}
	rest := input
	pos := 0
	for len(rest) > 0 {
		matched := false
		for _, typ := range t.types {
			loc := typ.pattern.FindStringSubmatchIndex(rest)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matchLen := loc[1]
			if matchLen == 0 {
				// a zero-length match would never advance; treat it as a
				// non-match so the tokenizer always makes progress.
				continue
			}
			text := rest[:matchLen]
			groups := submatches(rest, loc)
			value, keep := format(typ.formatter, text, groups)
			if keep {
				out = append(out, value)
				tracer().Debugf("token: matched %q -> %v", text, value)
			} else {
				tracer().Debugf("token: matched %q, dropped", text)
			}
			rest = rest[matchLen:]
			pos += matchLen
			matched = true
			break
		}
		if !matched {
			return nil, &Failure{Pos: pos}
		}
	}
	return out, nil
}

// TokenizeWithSpans behaves exactly like Tokenize, but additionally
// returns one earleygo.Span per emitted token, giving its byte offsets in
// input. A dropped match (Drop formatter) contributes no token and no
// span, same as Tokenize.
func (t *Tokenizer) TokenizeWithSpans(input string) ([]interface{}, []earleygo.Span, error) {
	var out []interface{}
	var spans []earleygo.Span
	rest := input
	pos := 0
	for len(rest) > 0 {
		matched := false
		for _, typ := range t.types {
			loc := typ.pattern.FindStringSubmatchIndex(rest)
			if loc == nil || loc[0] != 0 {
				continue
			}
			matchLen := loc[1]
			if matchLen == 0 {
				continue
			}
			text := rest[:matchLen]
			groups := submatches(rest, loc)
			value, keep := format(typ.formatter, text, groups)
			if keep {
				out = append(out, value)
				spans = append(spans, earleygo.Span{pos, pos + matchLen})
			}
			rest = rest[matchLen:]
			pos += matchLen
			matched = true
			break
		}
		if !matched {
			return nil, nil, &Failure{Pos: pos}
		}
	}
	return out, spans, nil
}

func submatches(s string, loc []int) []string {
	n := len(loc) / 2
	groups := make([]string, n)
	for i := 0; i < n; i++ {
		a, b := loc[2*i], loc[2*i+1]
		if a < 0 || b < 0 {
			groups[i] = ""
			continue
		}
		groups[i] = s[a:b]
	}
	return groups
}

func format(formatter interface{}, text string, groups []string) (value interface{}, keep bool) {
	switch f := formatter.(type) {
	case nil:
		return text, true
	case FormatterFunc:
		v := f(text, groups)
		if v == Drop {
			return nil, false
		}
		return v, true
	case Template:
		return expandTemplate(string(f), groups), true
	default:
		return text, true
	}
}

// expandTemplate scans template left-to-right, replacing each %N with
// capture group N of the match (group 0 is the whole match). Literal text
// between placeholders is preserved. A '%' not followed by one or more
// digits, or a reference to a capture group past the end of groups, is
// preserved literally rather than treated as an error.
func expandTemplate(tmpl string, groups []string) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '%' || i+1 >= len(tmpl) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		if j == i+1 { // '%' not followed by a digit
			b.WriteByte(c)
			i++
			continue
		}
		n, err := strconv.Atoi(tmpl[i+1 : j])
		if err != nil || n >= len(groups) {
			b.WriteString(tmpl[i:j])
			i = j
			continue
		}
		b.WriteString(groups[n])
		i = j
	}
	return b.String()
}

// Lexeme is a helper for rendering an arbitrary token value as a string,
// for tracing and error messages.
func Lexeme(tok interface{}) string {
	switch v := tok.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
