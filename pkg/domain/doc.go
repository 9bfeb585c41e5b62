/*
Package domain contains the core model of the automata engine.

It defines the entities of a deterministic finite automaton and the
acceptance check that runs over them. This package is kept pure and free of
I/O or persistence, following Hexagonal Architecture principles: parsing and
rendering live in package format, storage lives behind ports.AutomatonStore.

# Key Entities

  - Symbol: a single character of the input alphabet.
  - State: a labelled node with its transition table (Symbol -> label).
  - Automaton: states, alphabet, start label and accept set.
  - UndefinedTransitionError: returned when the current state has no entry
    for the symbol being consumed.

# Alphabet policy

Accepts does not check input symbols against the declared alphabet. A symbol
is consumed if the current state maps it, whether or not the alphabet lists
it, and fails with UndefinedTransitionError otherwise. Loaders never produce
off-alphabet transitions from well-formed input, so in practice the
permissive lookup only matters for automata built by hand.
*/
package domain
