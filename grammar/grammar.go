/*
Package grammar stores context-free production rules over named
nonterminals and anchored regex terminals.

A Grammar is a start-symbol name plus a table mapping nonterminal name to
its ordered alternatives (productions). Insertion order of alternatives is
preserved per left-hand side: it controls the order in which a later
Earley parse discovers alternative derivations, and therefore the order of
returned parse trees.
*/
package grammar

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/schuko/tracing"

	"github.com/earley-go/earleygo/token"
)

// tracer traces with key 'earleygo.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("earleygo.grammar")
}

// Kind distinguishes the two Symbol variants.
type Kind int

const (
	// NonterminalKind symbols carry a Name and are resolved against the
	// grammar's rule table.
	NonterminalKind Kind = iota
	// TerminalKind symbols carry a Pattern matched against a single input
	// token.
	TerminalKind
)

// Symbol is either a Nonterminal(name) or a Terminal(regex), per spec.
type Symbol struct {
	Kind    Kind
	Name    string         // valid when Kind == NonterminalKind
	Pattern *regexp.Regexp // valid when Kind == TerminalKind
}

// Nonterminal builds a nonterminal symbol.
func Nonterminal(name string) Symbol { return Symbol{Kind: NonterminalKind, Name: name} }

// Terminal builds a terminal symbol from an already-anchored pattern.
func Terminal(pattern *regexp.Regexp) Symbol { return Symbol{Kind: TerminalKind, Pattern: pattern} }

// IsTerminal reports whether s is a terminal symbol.
func (s Symbol) IsTerminal() bool { return s.Kind == TerminalKind }

// Equal compares two symbols the way predictor dedup requires: nonterminals
// by name, terminals by source pattern (not identity).
func (s Symbol) Equal(o Symbol) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == NonterminalKind {
		return s.Name == o.Name
	}
	return s.Pattern.String() == o.Pattern.String()
}

func (s Symbol) String() string {
	if s.Kind == NonterminalKind {
		return s.Name
	}
	return s.Pattern.String()
}

// Production is one right-hand side alternative for a nonterminal.
type Production struct {
	LHS string
	RHS []Symbol
}

func (p Production) String() string {
	parts := make([]string, len(p.RHS))
	for i, s := range p.RHS {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s -> %s", p.LHS, strings.Join(parts, " "))
}

// RejectMarker is the type of the Reject sentinel value.
type RejectMarker struct{}

// Reject is the sentinel ExpressionBuilder return value that discards the
// whole candidate parse the rejected subtree is part of.
var Reject = RejectMarker{}

// ExpressionBuilder rewrites a completed nonterminal subtree bottom-up.
// category is "" when AddCategories is off. Returning Reject discards the
// whole candidate parse.
type ExpressionBuilder func(category string, children []interface{}) interface{}

// Comparator reports whether two parse trees should be considered the same
// result during deduplication.
type Comparator func(a, b interface{}) bool

// Options configures a Grammar's parsing behavior. The zero value is the
// default: no categories, no branch collapsing, no debug tracing, no
// builder, no tokenizer, default comparator, unlimited iterations.
type Options struct {
	AddCategories       bool
	CollapseBranches    bool
	ShowDebuggingOutput bool
	ExpressionBuilder   ExpressionBuilder
	Tokenizer           *token.Tokenizer
	Comparator          Comparator
	MaxIterations       int // <= 0 means unlimited
}

// Grammar stores production rules for a start symbol. The zero value is not
// usable; create one with New.
type Grammar struct {
	mu      sync.Mutex
	start   string
	rules   *linkedhashmap.Map // string -> *arraylist.List of Production
	opts    Options
}

// New creates an empty grammar whose start symbol is start. The start
// symbol need not yet be defined; undefined references are only reported
// lazily, at parse time.
func New(start string) *Grammar {
	return &Grammar{
		start: start,
		rules: linkedhashmap.New(),
	}
}

// Start returns the grammar's start symbol name.
func (g *Grammar) Start() string { return g.start }

// SetOption sets a default option by name. Recognized names: "addCategories",
// "collapseBranches", "showDebuggingOutput", "expressionBuilder",
// "tokenizer", "comparator", "maxIterations".
func (g *Grammar) SetOption(name string, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch name {
	case "addCategories":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: addCategories wants a bool, got %T", value)
		}
		g.opts.AddCategories = b
	case "collapseBranches":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: collapseBranches wants a bool, got %T", value)
		}
		g.opts.CollapseBranches = b
	case "showDebuggingOutput":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: showDebuggingOutput wants a bool, got %T", value)
		}
		g.opts.ShowDebuggingOutput = b
	case "expressionBuilder":
		b, ok := value.(ExpressionBuilder)
		if !ok {
			return fmt.Errorf("grammar: expressionBuilder wants an ExpressionBuilder, got %T", value)
		}
		g.opts.ExpressionBuilder = b
	case "tokenizer":
		tk, ok := value.(*token.Tokenizer)
		if !ok {
			return fmt.Errorf("grammar: tokenizer wants a *token.Tokenizer, got %T", value)
		}
		g.opts.Tokenizer = tk
	case "comparator":
		c, ok := value.(Comparator)
		if !ok {
			return fmt.Errorf("grammar: comparator wants a Comparator, got %T", value)
		}
		g.opts.Comparator = c
	case "maxIterations":
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("grammar: maxIterations wants an int, got %T", value)
		}
		g.opts.MaxIterations = n
	default:
		return fmt.Errorf("grammar: unknown option %q", name)
	}
	return nil
}

// Options returns a snapshot of the grammar's current default options.
func (g *Grammar) Options() Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts
}

// AddRule registers one or more productions for lhs. Each element of
// rhsSpecs may be:
//
//   - a *regexp.Regexp, interpreted as a one-element rhs;
//   - a string, split on ASCII spaces into a sequence of nonterminal names;
//   - a []interface{} whose elements are strings (nonterminal names) or
//     *regexp.Regexp (terminals), interpreted as one ordered rhs.
//
// Every terminal regex is rewrapped with whole-string anchoring (^...$)
// before storage.
func (g *Grammar) AddRule(lhs string, rhsSpecs ...interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, spec := range rhsSpecs {
		rhs, err := toRHS(spec)
		if err != nil {
			return fmt.Errorf("grammar: AddRule(%q): %w", lhs, err)
		}
		g.addProductionLocked(Production{LHS: lhs, RHS: rhs})
	}
	return nil
}

func (g *Grammar) addProductionLocked(p Production) {
	var list *arraylist.List
	if v, found := g.rules.Get(p.LHS); found {
		list = v.(*arraylist.List)
	} else {
		list = arraylist.New()
		g.rules.Put(p.LHS, list)
	}
	list.Add(p)
	tracer().Debugf("grammar: added rule %s", p)
}

// toRHS converts one rhsSpec element into an ordered Symbol sequence, whole
// -string-anchoring any terminal regex it contains.
func toRHS(spec interface{}) ([]Symbol, error) {
	switch v := spec.(type) {
	case *regexp.Regexp:
		anchored, err := anchorWhole(v)
		if err != nil {
			return nil, err
		}
		return []Symbol{Terminal(anchored)}, nil
	case string:
		fields := strings.Fields(v)
		rhs := make([]Symbol, len(fields))
		for i, f := range fields {
			rhs[i] = Nonterminal(f)
		}
		return rhs, nil
	case []interface{}:
		rhs := make([]Symbol, len(v))
		for i, el := range v {
			switch e := el.(type) {
			case string:
				rhs[i] = Nonterminal(e)
			case *regexp.Regexp:
				anchored, err := anchorWhole(e)
				if err != nil {
					return nil, err
				}
				rhs[i] = Terminal(anchored)
			default:
				return nil, fmt.Errorf("rhs element must be a string or *regexp.Regexp, got %T", el)
			}
		}
		return rhs, nil
	default:
		return nil, fmt.Errorf("rhs spec must be a *regexp.Regexp, a string, or []interface{}, got %T", spec)
	}
}

// anchorWhole rewraps src so that it matches a whole string, start to end.
// Adding a rule with a terminal regex r must produce the same parses as
// adding it with ^r$, so both forms are normalized to the same anchored
// source here.
func anchorWhole(src *regexp.Regexp) (*regexp.Regexp, error) {
	s := src.String()
	if strings.HasPrefix(s, "^") {
		s = s[1:]
	}
	if strings.HasSuffix(s, "$") {
		s = s[:len(s)-1]
	}
	return regexp.Compile("^(?:" + s + ")$")
}

// Productions returns the ordered alternatives for name, or nil if name is
// undefined.
func (g *Grammar) Productions(name string) []Production {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, found := g.rules.Get(name)
	if !found {
		return nil
	}
	list := v.(*arraylist.List)
	out := make([]Production, list.Size())
	list.Each(func(i int, val interface{}) {
		out[i] = val.(Production)
	})
	return out
}

// Defined reports whether name has at least one production.
func (g *Grammar) Defined(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, found := g.rules.Get(name)
	return found
}
