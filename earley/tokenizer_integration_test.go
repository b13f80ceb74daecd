package earley

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/earley-go/earleygo/grammar"
	"github.com/earley-go/earleygo/token"
)

// End-to-end: a raw string is tokenized, then parsed, with no manual
// token-sequence construction by the caller.
func TestParseStringWithAttachedTokenizer(t *testing.T) {
	setupTest(t)
	tok := token.New()
	mustAddType(t, tok, `\s+`, token.FormatterFunc(func(string, []string) interface{} { return token.Drop }))
	mustAddType(t, tok, `[0-9]+`, nil)
	mustAddType(t, tok, `\+`, nil)

	g := grammar.New("S")
	mustAdd(t, g, "S", []interface{}{"S", regexp.MustCompile(`\+`), "T"})
	mustAdd(t, g, "S", "T")
	mustAdd(t, g, "T", regexp.MustCompile(`[0-9]+`))
	g.SetOption("tokenizer", tok)
	g.SetOption("collapseBranches", true)

	got, err := NewParser(g).Parse("1 + 2 + 3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one parse, got %d: %#v", len(got), got)
	}
	want := []interface{}{[]interface{}{"1", "+", "2"}, "+", "3"}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("got %#v, want %#v", got[0], want)
	}
}

// A tokenizer failure on a string input yields an empty result set, not an
// error.
func TestParseStringTokenizerFailureYieldsEmptyResult(t *testing.T) {
	setupTest(t)
	tok := token.New()
	mustAddType(t, tok, `[a-z]+`, nil)

	g := grammar.New("S")
	mustAdd(t, g, "S", "W")
	mustAdd(t, g, "W", regexp.MustCompile(`[a-z]+`))
	g.SetOption("tokenizer", tok)

	got, err := NewParser(g).Parse("abc123")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
}

// A string input with no attached tokenizer cannot produce a meaningful
// parse; it yields an empty result set.
func TestParseStringWithoutTokenizerYieldsEmptyResult(t *testing.T) {
	setupTest(t)
	g := grammar.New("S")
	mustAdd(t, g, "S", regexp.MustCompile(`.`))

	got, err := NewParser(g).Parse("x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
}

func mustAddType(t *testing.T, tok *token.Tokenizer, pattern string, formatter interface{}) {
	t.Helper()
	if err := tok.AddType(regexp.MustCompile(pattern), formatter); err != nil {
		t.Fatalf("AddType(%q): %v", pattern, err)
	}
}
