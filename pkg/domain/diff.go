package domain

// TransitionChange describes one (state, symbol) entry that differs between
// two automata. An empty From means the entry was added; an empty To means it was removed.
type TransitionChange struct {
	State  string
	Symbol Symbol
	From   string
	To     string
}

// AutomatonDiff represents the changes between two automata.
type AutomatonDiff struct {
	AddedStates    []string
	RemovedStates  []string
	AddedSymbols   []Symbol
	RemovedSymbols []Symbol

	// Start is set only when the start state changed.
	Start *string

	AddedAccepts   []string
	RemovedAccepts []string
	Transitions    []TransitionChange
}

// Diff calculates the difference between oldA and newA.
// If oldA is nil, it returns a diff describing the whole of newA.
// It returns nil when newA is nil or nothing changed.
func Diff(oldA, newA *Automaton) *AutomatonDiff {
	if newA == nil {
		return nil
	}
	if oldA == nil {
		oldA = &Automaton{states: map[string]*State{}, accepts: map[string]struct{}{}}
	}

	d := &AutomatonDiff{}

	for _, label := range newA.order {
		if _, ok := oldA.states[label]; !ok {
			d.AddedStates = append(d.AddedStates, label)
		}
	}
	for _, label := range oldA.order {
		if _, ok := newA.states[label]; !ok {
			d.RemovedStates = append(d.RemovedStates, label)
		}
	}

	d.AddedSymbols = missingSymbols(newA.alphabet, oldA.alphabet)
	d.RemovedSymbols = missingSymbols(oldA.alphabet, newA.alphabet)

	if oldA.start != newA.start {
		start := newA.start
		d.Start = &start
	}

	for _, label := range newA.acceptOrder {
		if _, ok := oldA.accepts[label]; !ok {
			d.AddedAccepts = append(d.AddedAccepts, label)
		}
	}
	for _, label := range oldA.acceptOrder {
		if _, ok := newA.accepts[label]; !ok {
			d.RemovedAccepts = append(d.RemovedAccepts, label)
		}
	}

	d.Transitions = diffTransitions(oldA, newA)

	if d.IsEmpty() {
		return nil
	}
	return d
}

// diffTransitions walks new states first, then states only the old automaton had.
func diffTransitions(oldA, newA *Automaton) []TransitionChange {
	var out []TransitionChange

	for _, label := range newA.order {
		ns := newA.states[label]
		prev, ok := oldA.states[label]
		for _, t := range ns.transitions {
			var from string
			if ok {
				from, _ = prev.Lookup(t.Symbol)
			}
			if from != t.To {
				out = append(out, TransitionChange{State: label, Symbol: t.Symbol, From: from, To: t.To})
			}
		}
		if !ok {
			continue
		}
		for _, t := range prev.transitions {
			if _, kept := ns.Lookup(t.Symbol); !kept {
				out = append(out, TransitionChange{State: label, Symbol: t.Symbol, From: t.To})
			}
		}
	}

	for _, label := range oldA.order {
		if _, ok := newA.states[label]; ok {
			continue
		}
		for _, t := range oldA.states[label].transitions {
			out = append(out, TransitionChange{State: label, Symbol: t.Symbol, From: t.To})
		}
	}
	return out
}

func missingSymbols(from, in []Symbol) []Symbol {
	seen := make(map[Symbol]struct{}, len(in))
	for _, s := range in {
		seen[s] = struct{}{}
	}
	var out []Symbol
	for _, s := range from {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty checks if the diff contains any changes.
func (d *AutomatonDiff) IsEmpty() bool {
	return len(d.AddedStates) == 0 &&
		len(d.RemovedStates) == 0 &&
		len(d.AddedSymbols) == 0 &&
		len(d.RemovedSymbols) == 0 &&
		d.Start == nil &&
		len(d.AddedAccepts) == 0 &&
		len(d.RemovedAccepts) == 0 &&
		len(d.Transitions) == 0
}
