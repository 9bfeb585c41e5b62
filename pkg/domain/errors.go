package domain

import (
	"errors"
	"fmt"
)

// ErrUndefinedTransition matches any *UndefinedTransitionError via errors.Is.
var ErrUndefinedTransition = errors.New("undefined transition")

// ErrAutomatonNotFound is returned when a named automaton cannot be found in a store.
var ErrAutomatonNotFound = errors.New("automaton not found")

var (
	// ErrUnknownState is returned when a start, accept or target label is not a declared state.
	ErrUnknownState = errors.New("unknown state")
	// ErrDuplicateState is returned when two states share a label.
	ErrDuplicateState = errors.New("duplicate state")
	// ErrDuplicateSymbol is returned when the alphabet lists a symbol twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrDuplicateTransition is returned when a state maps the same symbol twice.
	ErrDuplicateTransition = errors.New("duplicate transition")
	// ErrInvalidLabel is returned for labels that cannot be written in the tabular format.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrInvalidSymbol is returned for symbols that cannot be written in the tabular format.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// UndefinedTransitionError is returned when a state has no transition for a symbol.
// Partial automata are legal values, so callers decide whether this is a fault.
type UndefinedTransitionError struct {
	State  string
	Symbol Symbol
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("undefined transition: state %q has no entry for symbol %q", e.State, string(e.Symbol))
}

// Is reports whether target is ErrUndefinedTransition.
func (e *UndefinedTransitionError) Is(target error) bool {
	return target == ErrUndefinedTransition
}

// ErrInvalidName is returned for automaton names that stores cannot key on.
var ErrInvalidName = errors.New("invalid automaton name")
