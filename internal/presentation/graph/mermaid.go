package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// TraceOverlay marks a run on the diagram.
type TraceOverlay struct {
	// Path is the visited state sequence, start first.
	Path []string
	// Failed marks a run that stopped on an undefined transition.
	Failed bool
}

// GenerateMermaid renders a stateDiagram-v2. Edges between the same pair of
// states are merged into one labelled with every symbol, in alphabet order.
// Accept states get an edge to the final pseudo-state.
func GenerateMermaid(a *domain.Automaton, overlay *TraceOverlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for _, s := range a.States() {
		if id := sanitizeMermaidID(s.Label()); id != s.Label() {
			sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", escapeLabel(s.Label()), id))
		}
	}

	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(a.Start())))

	for _, s := range a.States() {
		from := sanitizeMermaidID(s.Label())
		var targets []string
		symbols := make(map[string][]string)
		for _, t := range ordered(a, s) {
			if _, ok := symbols[t.To]; !ok {
				targets = append(targets, t.To)
			}
			symbols[t.To] = append(symbols[t.To], symbolLabel(t.Symbol))
		}
		for _, to := range targets {
			sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n", from, sanitizeMermaidID(to), strings.Join(symbols[to], ", ")))
		}
	}

	for _, label := range a.AcceptLabels() {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", sanitizeMermaidID(label)))
	}

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Trace\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000\n")

		last := overlay.Path[len(overlay.Path)-1]
		seen := make(map[string]bool)
		for _, label := range overlay.Path {
			if label == last || seen[label] {
				continue
			}
			seen[label] = true
			sb.WriteString(fmt.Sprintf("    class %s visited\n", sanitizeMermaidID(label)))
		}

		class := "current"
		if overlay.Failed {
			class = "failed"
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", sanitizeMermaidID(last), class))
	}

	return sb.String()
}

func ordered(a *domain.Automaton, s *domain.State) []domain.Transition {
	out := make([]domain.Transition, 0, s.Len())
	for _, sym := range a.Alphabet() {
		if to, ok := s.Lookup(sym); ok {
			out = append(out, domain.Transition{Symbol: sym, To: to})
		}
	}
	for _, t := range s.Transitions() {
		if !a.HasSymbol(t.Symbol) {
			out = append(out, t)
		}
	}
	return out
}

// symbolLabel quotes characters that Mermaid treats as syntax in edge labels.
func symbolLabel(sym domain.Symbol) string {
	switch sym {
	case ':', ';', '#', '"':
		return fmt.Sprintf("#%d;", sym)
	default:
		return sym.String()
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
