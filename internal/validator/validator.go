package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// ErrPartial is returned by Report.Err when transitions are missing.
var ErrPartial = errors.New("automaton is not total")

// OffAlphabet is a transition on a symbol outside the declared alphabet.
type OffAlphabet struct {
	State  string
	Symbol domain.Symbol
}

// Report holds the structural findings for one automaton.
type Report struct {
	Missing         []domain.MissingTransition
	Unreachable     []string
	OffAlphabet     []OffAlphabet
	AcceptReachable bool
}

// Validate crawls the automaton from its start state and collects findings.
// Only declared-alphabet transitions are followed when computing reachability.
func Validate(a *domain.Automaton) Report {
	report := Report{Missing: a.Missing()}

	visited := make(map[string]bool)
	queue := []string{a.Start()}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		if a.IsAccept(current) {
			report.AcceptReachable = true
		}

		s, _ := a.State(current)
		for _, sym := range a.Alphabet() {
			if to, ok := s.Lookup(sym); ok && !visited[to] {
				queue = append(queue, to)
			}
		}
	}

	for _, s := range a.States() {
		if !visited[s.Label()] {
			report.Unreachable = append(report.Unreachable, s.Label())
		}
		for _, t := range s.Transitions() {
			if !a.HasSymbol(t.Symbol) {
				report.OffAlphabet = append(report.OffAlphabet, OffAlphabet{State: s.Label(), Symbol: t.Symbol})
			}
		}
	}

	return report
}

// Clean reports whether the automaton has no findings at all.
func (r Report) Clean() bool {
	return len(r.Missing) == 0 && len(r.Unreachable) == 0 && len(r.OffAlphabet) == 0 && r.AcceptReachable
}

// Err returns a non-nil error when transitions are missing, unless allowPartial is set.
// The other findings are warnings.
func (r Report) Err(allowPartial bool) error {
	if allowPartial || len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d missing transitions", ErrPartial, len(r.Missing))
}

// Lines renders the findings, one per line.
func (r Report) Lines() []string {
	var lines []string
	for _, m := range r.Missing {
		lines = append(lines, fmt.Sprintf("missing transition: (%s, %s)", m.State, m.Symbol))
	}
	if len(r.Unreachable) > 0 {
		lines = append(lines, "unreachable states: "+strings.Join(r.Unreachable, ", "))
	}
	for _, o := range r.OffAlphabet {
		lines = append(lines, fmt.Sprintf("transition outside alphabet: (%s, %s)", o.State, o.Symbol))
	}
	if !r.AcceptReachable {
		lines = append(lines, "no accept state is reachable from start")
	}
	return lines
}
