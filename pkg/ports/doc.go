/*
Package ports defines the driven ports (interfaces) of the automaton engine.

  - AutomatonStore: persists automata by name (memory, file and Redis adapters).

RunAutomatonStoreContract is a shared test suite that every store adapter runs.
*/
package ports
