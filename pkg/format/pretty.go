package format

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// Style selects how a single state's transitions are written.
type Style int

const (
	// StyleTabular writes "label, symbol, target" per transition.
	StyleTabular Style = iota
	// StylePretty writes "(label, symbol) -> target" per transition.
	StylePretty
)

// FormatState renders the transitions of s in insertion order, one per line.
func FormatState(s *domain.State, style Style) string {
	return formatTransitions(s.Label(), s.Transitions(), style)
}

func formatTransitions(label string, transitions []domain.Transition, style Style) string {
	lines := make([]string, 0, len(transitions))
	for _, t := range transitions {
		switch style {
		case StylePretty:
			lines = append(lines, fmt.Sprintf("(%s, %s) -> %s", label, t.Symbol, t.To))
		default:
			lines = append(lines, fmt.Sprintf("%s, %s, %s", label, t.Symbol, t.To))
		}
	}
	return strings.Join(lines, "\n")
}

// Pretty renders a human readable summary of a.
// It is an output format only; Parse does not read it back.
func Pretty(a *domain.Automaton) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "States: %s\n", strings.Join(a.StateLabels(), ", "))
	fmt.Fprintf(&sb, "Alphabet: %s\n", joinSymbols(a.Alphabet()))
	fmt.Fprintf(&sb, "Start: %s\n", a.Start())
	fmt.Fprintf(&sb, "Accept(s): %s\n", strings.Join(a.AcceptLabels(), ", "))
	sb.WriteString("Transitions:\n")
	for _, s := range a.States() {
		if block := formatTransitions(s.Label(), OrderedTransitions(a, s), StylePretty); block != "" {
			sb.WriteString(block)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
