/*
Package earley implements the Earley recognizer/reconstructor: the
state-set grid, the predictor/scanner/completer dispatch, and reconstruction
of the parse-tree forest, operating over a *grammar.Grammar.

Every Earley item carries the partial parse tree it has matched so far
(forward got-accumulation), so a completed top-level item's got[0]
already *is* one candidate parse tree, with no separate derivation walk
required afterwards. This also makes recovering every distinct parse of
an ambiguous grammar direct: each accepted top-level item yields its own
candidate tree, rather than resolving ambiguity down to a single result.
*/
package earley

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/earley-go/earleygo/grammar"
	"github.com/earley-go/earleygo/token"
)

// tracer traces with key 'earleygo.earley'.
func tracer() tracing.Trace {
	return tracing.Select("earleygo.earley")
}

// topLHS is the synthetic left-hand side of the seed item [S' -> start, 0].
const topLHS = ""

// Option overrides one of the grammar's default options for a single Parse
// call.
type Option func(*grammar.Options)

// WithAddCategories overrides AddCategories for one Parse call.
func WithAddCategories(b bool) Option {
	return func(o *grammar.Options) { o.AddCategories = b }
}

// WithCollapseBranches overrides CollapseBranches for one Parse call.
func WithCollapseBranches(b bool) Option {
	return func(o *grammar.Options) { o.CollapseBranches = b }
}

// WithShowDebuggingOutput overrides ShowDebuggingOutput for one Parse call.
func WithShowDebuggingOutput(b bool) Option {
	return func(o *grammar.Options) { o.ShowDebuggingOutput = b }
}

// WithExpressionBuilder overrides the ExpressionBuilder for one Parse call.
func WithExpressionBuilder(b grammar.ExpressionBuilder) Option {
	return func(o *grammar.Options) { o.ExpressionBuilder = b }
}

// WithTokenizer overrides the Tokenizer for one Parse call.
func WithTokenizer(t *token.Tokenizer) Option {
	return func(o *grammar.Options) { o.Tokenizer = t }
}

// WithComparator overrides the Comparator for one Parse call.
func WithComparator(c grammar.Comparator) Option {
	return func(o *grammar.Options) { o.Comparator = c }
}

// WithMaxIterations overrides MaxIterations for one Parse call.
func WithMaxIterations(n int) Option {
	return func(o *grammar.Options) { o.MaxIterations = n }
}

// Parser runs Earley recognition and forest reconstruction over a grammar.
// Create one with NewParser; Parser holds no per-parse state between calls,
// so one Parser may run successive, independent parses.
type Parser struct {
	g *grammar.Grammar
}

// NewParser creates a Parser bound to g. g's options are copied at the
// start of every Parse call; g's productions are not copied at all, but
// looked up from g each time a nonterminal is predicted, so rules added to
// g afterwards are visible to later parses (but see §5: addRule/SetOption
// must not race a concurrent Parse).
func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{g: g}
}

// Parse runs Earley recognition and forest reconstruction over input,
// which is either a string (tokenized first if a Tokenizer is configured,
// directly rejected as empty-results otherwise) or an already-tokenized
// []interface{} sequence. It never fails on unparseable input — that
// yields an empty result slice — but does return an error wrapping
// ErrUnknownNonterminal or ErrIterationLimitExceeded.
func (p *Parser) Parse(input interface{}, opts ...Option) ([]interface{}, error) {
	options := p.g.Options()
	for _, opt := range opts {
		opt(&options)
	}

	tokens, err := toTokenSequence(input, options)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		// no token sequence (tokenizer failure, string without a
		// tokenizer, unsupported input type): empty result set, not an
		// error (spec §4.2, §7 "Tokenizer returning failure for a string
		// input -> empty result sequence").
		return []interface{}{}, nil
	}

	grid, err := p.run(tokens, options)
	if err != nil {
		return nil, err
	}
	return p.reconstruct(grid, len(tokens), options)
}

// toTokenSequence resolves input into a token slice, or (nil, nil) if
// tokenization failed, input is a string but no Tokenizer is configured, or
// input is of an unsupported type.
func toTokenSequence(input interface{}, options grammar.Options) ([]interface{}, error) {
	switch v := input.(type) {
	case string:
		if options.Tokenizer == nil {
			return nil, nil
		}
		toks, err := options.Tokenizer.Tokenize(v)
		if err != nil {
			tracer().Debugf("earley: tokenization failed: %v", err)
			return nil, nil
		}
		if toks == nil {
			toks = []interface{}{} // tokenized fine, but yielded no tokens
		}
		return toks, nil
	case []interface{}:
		return v, nil
	default:
		return nil, nil
	}
}

// run executes the predictor/scanner/completer dispatch over tokens,
// returning the completed state grid.
func (p *Parser) run(tokens []interface{}, options grammar.Options) ([]*stateSet, error) {
	n := len(tokens)
	grid := make([]*stateSet, n+1)
	for i := range grid {
		grid[i] = newStateSet()
	}
	grid[0].add(item{lhs: topLHS, rhs: []grammar.Symbol{grammar.Nonterminal(p.g.Start())}, pos: 0, ori: 0, got: nil})

	iterations := 0
	checkLimit := func() error {
		iterations++
		if options.MaxIterations > 0 && iterations > options.MaxIterations {
			return iterationLimitError(options.MaxIterations)
		}
		return nil
	}

	for i := 0; i <= n; i++ {
		bucket := grid[i]
		for idx := 0; idx < bucket.Len(); idx++ { // re-reads Len() every step
			it := bucket.At(idx)
			sym, hasNext := it.nextSymbol()
			if !hasNext {
				if err := p.complete(grid, i, it, options, checkLimit); err != nil {
					return nil, err
				}
				continue
			}
			if sym.IsTerminal() {
				if i < n {
					if err := p.scan(grid, i, it, sym, tokens[i], checkLimit); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err := p.predict(grid, i, sym, checkLimit); err != nil {
				return nil, err
			}
		}
		if options.ShowDebuggingOutput {
			dumpBucket(bucket, i)
		}
	}
	return grid, nil
}

// scan advances it past a matching terminal.
// If [A -> ... . a ..., j] is in Si and a matches xi, add [A -> ... a . ..., j] to Si+1.
func (p *Parser) scan(grid []*stateSet, i int, it item, sym grammar.Symbol, tok interface{}, checkLimit func() error) error {
	text := tokenText(tok)
	if !sym.Pattern.MatchString(text) {
		return nil
	}
	if err := checkLimit(); err != nil {
		return err
	}
	grid[i+1].add(it.advance(tok))
	tracer().Debugf("earley: scan %s with %q -> %s", it, text, it.advance(tok))
	return nil
}

// predict adds, for the nonterminal about to be matched, fresh dot-zero
// items for each of its productions.
// If [A -> ... . B ..., j] is in Si, add [B -> . alpha, i] to Si for all
// rules B -> alpha.
func (p *Parser) predict(grid []*stateSet, i int, sym grammar.Symbol, checkLimit func() error) error {
	productions := p.g.Productions(sym.Name)
	if productions == nil {
		return unknownNonterminalError(sym.Name)
	}
	bucket := grid[i]
	for _, prod := range productions {
		if err := checkLimit(); err != nil {
			return err
		}
		added := bucket.addPrediction(item{lhs: prod.LHS, rhs: prod.RHS, pos: 0, ori: i, got: nil})
		if added {
			tracer().Debugf("earley: predict [%s -> ..., %d] in S%d", prod.LHS, i, i)
		}
	}
	return nil
}

// complete advances items in the origin bucket that were waiting for the
// nonterminal just finished.
// If [A -> ... ., j] is in Si, add [B -> ... A ..., k] to Si for all items
// [B -> ... . A ..., k] in Sj.
func (p *Parser) complete(grid []*stateSet, i int, it item, options grammar.Options, checkLimit func() error) error {
	child := buildChild(it, options)
	origin := grid[it.ori]
	for idx := 0; idx < origin.Len(); idx++ {
		waiting := origin.At(idx)
		sym, hasNext := waiting.nextSymbol()
		if !hasNext || sym.Kind != grammar.NonterminalKind || sym.Name != it.lhs {
			continue
		}
		if err := checkLimit(); err != nil {
			return err
		}
		grid[i].add(waiting.advance(child))
		tracer().Debugf("earley: complete %s via %s", waiting, it)
	}
	return nil
}

// reconstruct scans the final bucket for accepted top-level items and turns
// each one into a candidate parse tree, applying the ExpressionBuilder (if
// any) and deduplicating with the configured Comparator.
func (p *Parser) reconstruct(grid []*stateSet, n int, options grammar.Options) ([]interface{}, error) {
	final := grid[n]
	var results []interface{}
	for idx := 0; idx < final.Len(); idx++ {
		it := final.At(idx)
		if it.lhs != topLHS || !it.atEnd() {
			continue
		}
		root := it.got[0]
		if options.ExpressionBuilder != nil {
			rewritten, ok := rewrite(root, options.ExpressionBuilder)
			if !ok {
				continue // this candidate's builder rejected a subtree
			}
			results = append(results, rewritten)
			continue
		}
		results = append(results, export(root))
	}
	if results == nil {
		results = []interface{}{}
	}
	return dedupe(results, options.Comparator), nil
}

func tokenText(tok interface{}) string {
	switch v := tok.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
