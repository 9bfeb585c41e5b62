/*
Package format reads and writes automaton descriptions.

The tabular format is line oriented. Each automaton is one block; blocks are
separated by blank lines:

	q1, q2          <- state labels, in declaration order
	0, 1            <- alphabet symbols, in declaration order
	q1              <- start state
	q2              <- accept states ("-" for none)
	q1, 0, q1       <- |states| x |alphabet| transition lines
	q1, 1, q2
	q2, 0, q1
	q2, 1, q2

Marshal writes transitions grouped by state in declaration order and, within
a state, in alphabet order, so Parse(Marshal(a)) reproduces a and marshalling
twice yields identical text.

The package also renders a human readable summary (Pretty) and a YAML
document form (MarshalYAML / UnmarshalYAML).
*/
package format
