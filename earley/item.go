package earley

import (
	"fmt"
	"strings"

	"github.com/earley-go/earleygo/grammar"
)

// item is an Earley state: a production, a dot position, an origin, and the
// partial parse accumulated so far.
type item struct {
	lhs string
	rhs []grammar.Symbol
	pos int
	ori int
	got []interface{}
}

// atEnd reports whether the dot sits at the end of rhs.
func (it item) atEnd() bool {
	return it.pos == len(it.rhs)
}

// nextSymbol returns the symbol immediately after the dot, or the zero
// Symbol and false if the dot is at the end.
func (it item) nextSymbol() (grammar.Symbol, bool) {
	if it.atEnd() {
		return grammar.Symbol{}, false
	}
	return it.rhs[it.pos], true
}

// advance returns a copy of it with the dot moved one position to the
// right and newGot appended to got.
func (it item) advance(newGot interface{}) item {
	got := make([]interface{}, len(it.got)+1)
	copy(got, it.got)
	got[len(it.got)] = newGot
	return item{
		lhs: it.lhs,
		rhs: it.rhs,
		pos: it.pos + 1,
		ori: it.ori,
		got: got,
	}
}

// predictionKey identifies an item for predictor dedup: lhs, rhs
// (element-wise, regex elements by source pattern), and pos == 0. got and
// ori are deliberately excluded.
func predictionKey(lhs string, rhs []grammar.Symbol) string {
	parts := make([]string, len(rhs))
	for i, s := range rhs {
		if s.Kind == grammar.NonterminalKind {
			parts[i] = "N:" + s.Name
		} else {
			parts[i] = "T:" + s.Pattern.String()
		}
	}
	return lhs + "\x00" + strings.Join(parts, "\x1f")
}

func (it item) String() string {
	parts := make([]string, len(it.rhs))
	for i, s := range it.rhs {
		parts[i] = s.String()
	}
	dotted := append(append([]string{}, parts[:it.pos]...), "•")
	dotted = append(dotted, parts[it.pos:]...)
	return fmt.Sprintf("[%s -> %s, %d]", it.lhs, strings.Join(dotted, " "), it.ori)
}
