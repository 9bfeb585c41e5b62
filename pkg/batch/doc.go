/*
Package batch evaluates many (automaton, input) pairs against expected results.

Expectations are read from a line-oriented text file, one line per automaton:

	True 1
	False 0110

The first token is the literal True or False; it is parsed strictly and never
evaluated. The second token is the input string. A line holding only the
literal stands for the empty input.

Runner pairs automaton i with expectation i, evaluates the pairs in parallel
and aggregates the counts into a Report. A mismatch between the computed and
expected result is reported, not returned as an error.
*/
package batch
