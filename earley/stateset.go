package earley

// stateSet is one bucket of the Earley state grid: an ordered, append-only
// list of items. Items may be appended while a traversal of the bucket is
// in progress, and the traversal must observe them — the dispatch loop in
// parser.go re-reads Len on every step rather than caching it. The bucket
// never removes items; an Earley bucket only grows during its own
// processing.
type stateSet struct {
	items     []item
	predicted map[string]bool // predictor dedup index, keyed by predictionKey
}

func newStateSet() *stateSet {
	return &stateSet{predicted: make(map[string]bool)}
}

// Len returns the current number of items. Callers iterating a stateSet
// must re-read Len on every step (see the dispatch loop in Parser.run) rather than
// caching it, so that items appended mid-traversal are visited in the same
// pass.
func (s *stateSet) Len() int {
	return len(s.items)
}

// At returns the item at index i.
func (s *stateSet) At(i int) item {
	return s.items[i]
}

// add appends it unconditionally.
func (s *stateSet) add(it item) {
	s.items = append(s.items, it)
}

// addPrediction appends a dot-zero prediction only if no item with the same
// predictor dedup key (lhs, rhs, pos==0) has already been added to this
// bucket. Returns true if the item was added.
func (s *stateSet) addPrediction(it item) bool {
	key := predictionKey(it.lhs, it.rhs)
	if s.predicted[key] {
		return false
	}
	s.predicted[key] = true
	s.add(it)
	return true
}
