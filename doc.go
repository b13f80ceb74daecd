/*
Package earleygo is a context-free parsing toolbox built around the
Earley algorithm.

It strives to be a smart and lightweight library for recognizing and
reconstructing parse trees over ambiguous grammars, with an optional
attached tokenizer so callers can hand it raw strings instead of
pre-split token sequences. Package structure is as follows:

■ token: Package token implements a greedy, ordered, first-match-wins
regex tokenizer.

■ grammar: Package grammar stores context-free production rules over
named nonterminals and anchored regex terminals.

■ earley: Package earley implements the Earley recognizer/reconstructor
over a *grammar.Grammar.

The base package contains a handful of small data types (Span) shared by
the other packages.
*/
package earleygo
