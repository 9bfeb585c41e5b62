/*
Package automata is a deterministic finite automaton (DFA) engine.

An automaton is a finite set of labelled states, an alphabet of single
characters, a start state, a set of accept states and a transition table.
Evaluating an input string is a left fold over its characters starting at the
start state; the input is accepted when the fold ends on an accept state. A
character with no entry in the current state's table fails the evaluation
with domain.UndefinedTransitionError.

# Packages

  - pkg/domain: Symbol, State and Automaton, plus the typed errors.
  - pkg/format: the tabular text format (load and serialize), a pretty form
    and a YAML form.
  - pkg/batch: expectation files and a parallel batch runner.
  - pkg/generator: seeded random automata for experiments and tests.
  - pkg/ports and pkg/adapters: named storage (memory, file, Redis), the HTTP
    API and the MCP tool server.

# Usage

The Engine ties a store to evaluation:

	eng := automata.New(automata.WithStore(memory.New()))

	a, err := format.Parse([]byte("q1, q2\n0, 1\nq1\nq2\nq1, 0, q1\nq1, 1, q2\nq2, 0, q1\nq2, 1, q2\n"))
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Put(ctx, "ends-in-one", a); err != nil {
		log.Fatal(err)
	}

	res, err := eng.Check(ctx, "ends-in-one", "0101")
	// res.Accepted == true, res.Trace == [q1 q1 q2 q1 q2]

Automata are immutable once built, so a single value may be evaluated from
many goroutines.
*/
package automata
