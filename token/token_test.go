package token

import (
	"regexp"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/earley-go/earleygo"
)

func setupTest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earleygo.token")
	t.Cleanup(teardown)
	tracer().SetTraceLevel(tracing.LevelDebug)
}

func TestDropFormatter(t *testing.T) {
	setupTest(t)
	tok := New()
	mustAddType(t, tok, `\s+`, FormatterFunc(func(string, []string) interface{} { return Drop }))
	mustAddType(t, tok, `[a-z]+`, nil)

	got, err := tok.Tokenize("a  b")
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	want := []interface{}{"a", "b"}
	if !equalSlices(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTemplateFormatter(t *testing.T) {
	setupTest(t)
	tok := New()
	mustAddType(t, tok, `/((?:[^\\/]|\\.)*)/`, Template("RegExp(%1)"))
	mustAddType(t, tok, `[a-zA-Z_][a-zA-Z0-9_]*`, nil)
	mustAddType(t, tok, `[()+]`, nil)
	mustAddType(t, tok, `[0-9]+`, nil)

	got, err := tok.Tokenize("my(/abc/)+6")
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	want := []interface{}{"my", "(", "RegExp(abc)", ")", "+", "6"}
	if !equalSlices(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUnmatchedInputFails(t *testing.T) {
	setupTest(t)
	tok := New()
	mustAddType(t, tok, `[a-z]+`, nil)

	_, err := tok.Tokenize("abc123")
	if err == nil {
		t.Fatalf("expected failure, got none")
	}
	var fail *Failure
	if !asFailure(err, &fail) {
		t.Fatalf("expected *Failure, got %T: %v", err, err)
	}
	if fail.Pos != 3 {
		t.Errorf("expected failure at pos 3, got %d", fail.Pos)
	}
}

func TestFirstMatchWinsOverLongestMatch(t *testing.T) {
	setupTest(t)
	tok := New()
	// "if" registered before the general identifier pattern must win even
	// though the identifier pattern would match the longer "iffy" — order,
	// not match length, decides which pattern is chosen.
	mustAddType(t, tok, `if`, Template("KW_IF"))
	mustAddType(t, tok, `[a-z]+`, nil)

	got, err := tok.Tokenize("iffy")
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	// "if" matches and consumes 2 chars, leaving "fy" for the second type.
	want := []interface{}{"KW_IF", "fy"}
	if !equalSlices(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAnchoringDoesNotMutateCallerPattern(t *testing.T) {
	setupTest(t)
	tok := New()
	re := regexp.MustCompile(`[a-z]+`)
	mustAddType(t, tok, "", nil) // placeholder to exercise AddType signature below
	tok.types = tok.types[:0]
	if err := tok.AddType(re, nil); err != nil {
		t.Fatalf("AddType: %v", err)
	}
	if re.String() != "[a-z]+" {
		t.Errorf("caller's pattern was mutated: %q", re.String())
	}
}

func TestEmptyInputYieldsEmptySequence(t *testing.T) {
	setupTest(t)
	tok := New()
	mustAddType(t, tok, `[a-z]+`, nil)
	got, err := tok.Tokenize("")
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty sequence, got %v", got)
	}
}

func TestTokenizeWithSpansReportsOffsets(t *testing.T) {
	setupTest(t)
	tok := New()
	mustAddType(t, tok, `\s+`, FormatterFunc(func(string, []string) interface{} { return Drop }))
	mustAddType(t, tok, `[a-z]+`, nil)

	toks, spans, err := tok.TokenizeWithSpans("ab cd")
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	wantToks := []interface{}{"ab", "cd"}
	if !equalSlices(toks, wantToks) {
		t.Fatalf("got %v, want %v", toks, wantToks)
	}
	wantSpans := []earleygo.Span{{0, 2}, {3, 5}}
	if len(spans) != len(wantSpans) {
		t.Fatalf("got %d spans, want %d", len(spans), len(wantSpans))
	}
	for i, s := range spans {
		if s != wantSpans[i] {
			t.Errorf("span %d: got %v, want %v", i, s, wantSpans[i])
		}
	}
}

// --- test helpers -----------------------------------------------------

func mustAddType(t *testing.T, tok *Tokenizer, pattern string, formatter interface{}) {
	t.Helper()
	if pattern == "" {
		return
	}
	if err := tok.AddType(regexp.MustCompile(pattern), formatter); err != nil {
		t.Fatalf("AddType(%q): %v", pattern, err)
	}
}

func equalSlices(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func asFailure(err error, out **Failure) bool {
	f, ok := err.(*Failure)
	if ok {
		*out = f
	}
	return ok
}
