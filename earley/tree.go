package earley

import (
	"reflect"

	"github.com/cnf/structhash"

	"github.com/earley-go/earleygo/grammar"
)

func hashValue(v interface{}) (string, error) {
	return structhash.Hash(v, 1)
}

// node is a completed nonterminal subtree: an ordered list of children
// (terminal values or nested *node values), optionally carrying the
// producing nonterminal's name and/or a tag marking it eligible for
// bottom-up rewriting by an ExpressionBuilder. builderTag and category are
// ordinary struct fields rather than values mixed into the child list, so
// a builder-eligible node never needs to be distinguished from its
// children by a magic in-band marker.
type node struct {
	category    string
	hasCategory bool
	builderTag  bool
	children    []interface{}
}

// buildChild builds the child subtree a completer appends to a waiting
// parent's got, from a just-completed item it. collapseBranches is applied
// uniformly here regardless of whether a builder or categories are
// configured: a singleton production (exactly one rhs element) is always
// transparent, never allocating a node and never becoming builder-eligible.
// This keeps collapsing idempotent: the result is the same whether it is
// applied while building the tree or as a later, separate pass over it.
func buildChild(it item, opts grammar.Options) interface{} {
	tuple := it.got
	if opts.CollapseBranches && len(tuple) == 1 {
		return tuple[0]
	}
	n := &node{children: append([]interface{}(nil), tuple...)}
	if opts.ExpressionBuilder != nil {
		n.builderTag = true
	}
	if opts.AddCategories {
		n.hasCategory = true
		n.category = it.lhs
	}
	return n
}

// rejected is a private sentinel value signalling that a subtree's builder
// call returned grammar.Reject; it propagates up through rewrite and causes
// the whole candidate parse to be discarded.
type rejected struct{}

// rewrite walks v bottom-up, invoking builder on every *node it finds
// (every completed nonterminal subtree, since buildChild only omits a node
// for transparently-collapsed singletons). Returns (result, true) on
// success, or (nil, false) if any subtree's builder call rejected.
func rewrite(v interface{}, builder grammar.ExpressionBuilder) (interface{}, bool) {
	n, ok := v.(*node)
	if !ok {
		return v, true // terminal value, passed through unchanged
	}
	children := make([]interface{}, len(n.children))
	for i, c := range n.children {
		rc, ok := rewrite(c, builder)
		if !ok {
			return nil, false
		}
		children[i] = rc
	}
	category := ""
	if n.hasCategory {
		category = n.category
	}
	result := builder(category, children)
	if _, isReject := result.(grammar.RejectMarker); isReject {
		return nil, false
	}
	return result, true
}

// export converts v into a plain, caller-facing tree: every *node becomes
// an []interface{} ([]interface{}{category, children...} if the node
// carries a category, else just its children), recursively. Terminal
// values pass through unchanged. This is used when no ExpressionBuilder is
// configured, so callers never see the internal *node type.
func export(v interface{}) interface{} {
	n, ok := v.(*node)
	if !ok {
		return v
	}
	children := make([]interface{}, len(n.children))
	for i, c := range n.children {
		children[i] = export(c)
	}
	if n.hasCategory {
		return append([]interface{}{n.category}, children...)
	}
	return children
}

// DefaultComparator is the default result-deduplication predicate: deep
// structural equality over the exported tree shape. Trees built by this
// package have no unordered-object representation (they are nested slices
// and scalars), so this reduces to ordinary deep equality; see DESIGN.md
// for more on this choice.
func DefaultComparator(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}

// HashComparator builds a Comparator backed by github.com/cnf/structhash,
// trading DefaultComparator's exhaustive comparison for a cheaper
// hash-then-compare pass, for callers willing to accept the (rare) risk
// of a hash collision in exchange for speed on large trees.
func HashComparator() grammar.Comparator {
	return func(a, b interface{}) bool {
		ha, errA := hashValue(a)
		hb, errB := hashValue(b)
		if errA != nil || errB != nil {
			return reflect.DeepEqual(a, b)
		}
		return ha == hb
	}
}

// dedupe removes results already seen under cmp, preserving first-occurrence
// order.
func dedupe(results []interface{}, cmp grammar.Comparator) []interface{} {
	if cmp == nil {
		cmp = DefaultComparator
	}
	out := make([]interface{}, 0, len(results))
	for _, r := range results {
		dup := false
		for _, seen := range out {
			if cmp(seen, r) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
