package earley

import (
	"errors"
	"fmt"
)

// ErrUnknownNonterminal is the sentinel wrapped when prediction encounters a
// nonterminal with no registered productions.
var ErrUnknownNonterminal = errors.New("earley: reference to undefined nonterminal")

// ErrIterationLimitExceeded is the sentinel wrapped when the optional
// MaxIterations cap is breached.
var ErrIterationLimitExceeded = errors.New("earley: iteration limit exceeded")

func unknownNonterminalError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownNonterminal, name)
}

func iterationLimitError(limit int) error {
	return fmt.Errorf("%w: limit was %d", ErrIterationLimitExceeded, limit)
}
