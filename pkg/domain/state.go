package domain

import "fmt"

// State is a labelled node of an automaton together with its transition table.
// The table remembers insertion order so that per-state rendering is stable.
type State struct {
	label       string
	transitions []Transition
	index       map[Symbol]int
}

// NewState creates a state from its label and transitions.
// A symbol may appear only once.
func NewState(label string, transitions ...Transition) (*State, error) {
	if err := validateLabel(label); err != nil {
		return nil, err
	}
	s := &State{
		label:       label,
		transitions: make([]Transition, 0, len(transitions)),
		index:       make(map[Symbol]int, len(transitions)),
	}
	for _, t := range transitions {
		if err := t.Symbol.validate(); err != nil {
			return nil, fmt.Errorf("state %q: %w", label, err)
		}
		if _, dup := s.index[t.Symbol]; dup {
			return nil, fmt.Errorf("%w: state %q symbol %q", ErrDuplicateTransition, label, t.Symbol.String())
		}
		s.index[t.Symbol] = len(s.transitions)
		s.transitions = append(s.transitions, t)
	}
	return s, nil
}

// MustState is like NewState but panics on error. Intended for tests and fixtures.
func MustState(label string, transitions ...Transition) *State {
	s, err := NewState(label, transitions...)
	if err != nil {
		panic(err)
	}
	return s
}

// Label returns the state label.
func (s *State) Label() string {
	return s.label
}

// Lookup returns the successor label for symbol and whether one is defined.
func (s *State) Lookup(symbol Symbol) (string, bool) {
	i, ok := s.index[symbol]
	if !ok {
		return "", false
	}
	return s.transitions[i].To, true
}

// Transition returns the successor label for symbol, or an *UndefinedTransitionError.
func (s *State) Transition(symbol Symbol) (string, error) {
	to, ok := s.Lookup(symbol)
	if !ok {
		return "", &UndefinedTransitionError{State: s.label, Symbol: symbol}
	}
	return to, nil
}

// Transitions returns a copy of the table in insertion order.
func (s *State) Transitions() []Transition {
	out := make([]Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// Len returns the number of defined transitions.
func (s *State) Len() int {
	return len(s.transitions)
}
