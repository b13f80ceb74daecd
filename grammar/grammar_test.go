package grammar

import (
	"regexp"
	"testing"
)

func TestAddRuleSpaceSplitString(t *testing.T) {
	g := New("S")
	if err := g.AddRule("S", "A B C"); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	prods := g.Productions("S")
	if len(prods) != 1 {
		t.Fatalf("expected 1 production, got %d", len(prods))
	}
	want := []string{"A", "B", "C"}
	for i, s := range prods[0].RHS {
		if s.Kind != NonterminalKind || s.Name != want[i] {
			t.Errorf("rhs[%d] = %v, want nonterminal %q", i, s, want[i])
		}
	}
}

func TestAddRuleSingleTerminal(t *testing.T) {
	g := New("S")
	re := regexp.MustCompile(`[0-9]+`)
	if err := g.AddRule("S", re); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	prods := g.Productions("S")
	if len(prods) != 1 || len(prods[0].RHS) != 1 {
		t.Fatalf("expected one production with one rhs element, got %v", prods)
	}
	sym := prods[0].RHS[0]
	if !sym.IsTerminal() {
		t.Fatalf("expected a terminal symbol")
	}
	if sym.Pattern.String() != `^(?:[0-9]+)$` {
		t.Errorf("pattern not whole-string anchored: %q", sym.Pattern.String())
	}
}

func TestTerminalAnchoringIdempotent(t *testing.T) {
	// Adding a rule with a terminal regex r must produce the same parses as
	// adding it with ^r$.
	g1 := New("S")
	g1.AddRule("S", regexp.MustCompile(`ab`))
	g2 := New("S")
	g2.AddRule("S", regexp.MustCompile(`^ab$`))

	p1 := g1.Productions("S")[0].RHS[0].Pattern.String()
	p2 := g2.Productions("S")[0].RHS[0].Pattern.String()
	if p1 != p2 {
		t.Errorf("anchoring not idempotent: %q vs %q", p1, p2)
	}
}

func TestAddRuleMixedSequence(t *testing.T) {
	g := New("Expr")
	if err := g.AddRule("Expr", []interface{}{"Expr", regexp.MustCompile(`\+`), "Term"}); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	prods := g.Productions("Expr")
	if len(prods) != 1 || len(prods[0].RHS) != 3 {
		t.Fatalf("unexpected productions: %v", prods)
	}
	if prods[0].RHS[0].Kind != NonterminalKind || prods[0].RHS[1].Kind != TerminalKind || prods[0].RHS[2].Kind != NonterminalKind {
		t.Errorf("unexpected rhs kinds: %v", prods[0].RHS)
	}
}

func TestAddRulePreservesInsertionOrder(t *testing.T) {
	g := New("S")
	g.AddRule("S", "A")
	g.AddRule("S", "B")
	g.AddRule("S", "C")
	prods := g.Productions("S")
	names := []string{"A", "B", "C"}
	for i, p := range prods {
		if p.RHS[0].Name != names[i] {
			t.Errorf("production %d = %v, want rhs starting with %q", i, p, names[i])
		}
	}
}

func TestSymbolEqualCompaesRegexBySource(t *testing.T) {
	a := Terminal(regexp.MustCompile(`^(?:x)$`))
	b := Terminal(regexp.MustCompile(`^(?:x)$`))
	if !a.Equal(b) {
		t.Errorf("expected distinct *regexp.Regexp with identical source to be Equal")
	}
}

func TestDefined(t *testing.T) {
	g := New("S")
	if g.Defined("S") {
		t.Errorf("S should not be defined before AddRule")
	}
	g.AddRule("S", "A")
	if !g.Defined("S") {
		t.Errorf("S should be defined after AddRule")
	}
	if g.Defined("A") {
		t.Errorf("A was never given a production")
	}
}
