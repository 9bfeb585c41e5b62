package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyAlphabet is returned when an automaton is built without symbols.
var ErrEmptyAlphabet = errors.New("empty alphabet")

// Automaton is a deterministic finite automaton.
// It owns its states exclusively and exposes no mutating API after New returns,
// so a single instance can be evaluated from many goroutines.
type Automaton struct {
	alphabet    []Symbol
	states      map[string]*State
	order       []string
	start       string
	accepts     map[string]struct{}
	acceptOrder []string
}

// MissingTransition names a (state, symbol) pair absent from the transition table.
type MissingTransition struct {
	State  string
	Symbol Symbol
}

// New builds an automaton and checks its structural invariants:
// unique state labels and symbols, a declared start state, declared accept
// states and declared transition targets. Duplicate accept labels collapse.
// Transition tables may be partial.
func New(states []*State, alphabet []Symbol, start string, accepts []string) (*Automaton, error) {
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	a := &Automaton{
		alphabet: make([]Symbol, 0, len(alphabet)),
		states:   make(map[string]*State, len(states)),
		order:    make([]string, 0, len(states)),
		start:    start,
		accepts:  make(map[string]struct{}, len(accepts)),
	}

	seen := make(map[Symbol]struct{}, len(alphabet))
	for _, sym := range alphabet {
		if err := sym.validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[sym]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, sym.String())
		}
		seen[sym] = struct{}{}
		a.alphabet = append(a.alphabet, sym)
	}

	for _, s := range states {
		if s == nil {
			return nil, fmt.Errorf("%w: nil state", ErrInvalidLabel)
		}
		if _, dup := a.states[s.label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateState, s.label)
		}
		a.states[s.label] = s
		a.order = append(a.order, s.label)
	}

	if _, ok := a.states[start]; !ok {
		return nil, fmt.Errorf("%w: start state %q", ErrUnknownState, start)
	}

	for _, label := range accepts {
		if _, ok := a.states[label]; !ok {
			return nil, fmt.Errorf("%w: accept state %q", ErrUnknownState, label)
		}
		if _, dup := a.accepts[label]; dup {
			continue
		}
		a.accepts[label] = struct{}{}
		a.acceptOrder = append(a.acceptOrder, label)
	}

	for _, label := range a.order {
		for _, t := range a.states[label].transitions {
			if _, ok := a.states[t.To]; !ok {
				return nil, fmt.Errorf("%w: %q on %q targets %q", ErrUnknownState, label, t.Symbol.String(), t.To)
			}
		}
	}

	return a, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(states []*State, alphabet []Symbol, start string, accepts []string) *Automaton {
	a, err := New(states, alphabet, start, accepts)
	if err != nil {
		panic(err)
	}
	return a
}

// Alphabet returns the declared symbols in declaration order.
func (a *Automaton) Alphabet() []Symbol {
	out := make([]Symbol, len(a.alphabet))
	copy(out, a.alphabet)
	return out
}

// Start returns the start state label.
func (a *Automaton) Start() string {
	return a.start
}

// States returns the states in declaration order.
func (a *Automaton) States() []*State {
	out := make([]*State, 0, len(a.order))
	for _, label := range a.order {
		out = append(out, a.states[label])
	}
	return out
}

// StateLabels returns the state labels in declaration order.
func (a *Automaton) StateLabels() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// State returns the state with the given label.
func (a *Automaton) State(label string) (*State, bool) {
	s, ok := a.states[label]
	return s, ok
}

// AcceptLabels returns the accept states in declaration order.
func (a *Automaton) AcceptLabels() []string {
	out := make([]string, len(a.acceptOrder))
	copy(out, a.acceptOrder)
	return out
}

// IsAccept reports whether label is an accept state.
func (a *Automaton) IsAccept(label string) bool {
	_, ok := a.accepts[label]
	return ok
}

// HasSymbol reports whether sym belongs to the declared alphabet.
func (a *Automaton) HasSymbol(sym Symbol) bool {
	for _, s := range a.alphabet {
		if s == sym {
			return true
		}
	}
	return false
}

// Accepts runs input through the automaton and reports whether it ends in an accept state.
// Every rune is consumed; there is no early exit. The empty string is accepted
// iff the start state accepts. A rune the current state does not map fails with
// *UndefinedTransitionError.
func (a *Automaton) Accepts(input string) (bool, error) {
	return a.AcceptsSymbols(Symbols(input))
}

// AcceptsSymbols is Accepts over an explicit symbol sequence.
func (a *Automaton) AcceptsSymbols(input []Symbol) (bool, error) {
	current := a.start
	for _, sym := range input {
		next, err := a.states[current].Transition(sym)
		if err != nil {
			return false, err
		}
		current = next
	}
	return a.IsAccept(current), nil
}

// Trace returns the labels visited while consuming input, start state first.
// On success it has one more entry than input has runes.
func (a *Automaton) Trace(input string) ([]string, error) {
	path := []string{a.start}
	if _, err := a.walk(input, &path); err != nil {
		return path, err
	}
	return path, nil
}

func (a *Automaton) walk(input string, path *[]string) (string, error) {
	current := a.start
	for _, r := range input {
		next, err := a.states[current].Transition(Symbol(r))
		if err != nil {
			return current, err
		}
		current = next
		if path != nil {
			*path = append(*path, current)
		}
	}
	return current, nil
}

// Missing lists the (state, symbol) pairs of the alphabet with no transition,
// in state then alphabet order.
func (a *Automaton) Missing() []MissingTransition {
	var out []MissingTransition
	for _, label := range a.order {
		s := a.states[label]
		for _, sym := range a.alphabet {
			if _, ok := s.index[sym]; !ok {
				out = append(out, MissingTransition{State: label, Symbol: sym})
			}
		}
	}
	return out
}

// IsTotal reports whether every state maps every alphabet symbol.
func (a *Automaton) IsTotal() bool {
	return len(a.Missing()) == 0
}

// Equal reports whether both automata declare the same states in the same
// order, the same alphabet in the same order, the same start and accept set,
// and identical transition tables. Table insertion order is ignored.
func (a *Automaton) Equal(b *Automaton) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.start != b.start || len(a.order) != len(b.order) || len(a.alphabet) != len(b.alphabet) || len(a.accepts) != len(b.accepts) {
		return false
	}
	for i := range a.alphabet {
		if a.alphabet[i] != b.alphabet[i] {
			return false
		}
	}
	for label := range a.accepts {
		if _, ok := b.accepts[label]; !ok {
			return false
		}
	}
	for i, label := range a.order {
		if b.order[i] != label {
			return false
		}
		sa, sb := a.states[label], b.states[label]
		if len(sa.transitions) != len(sb.transitions) {
			return false
		}
		for _, t := range sa.transitions {
			to, ok := sb.Lookup(t.Symbol)
			if !ok || to != t.To {
				return false
			}
		}
	}
	return true
}
