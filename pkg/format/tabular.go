package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

var headerNames = [4]string{"state labels", "alphabet", "start state", "accept states"}

// Result is the outcome of parsing one block with ParseEach.
type Result struct {
	Index     int
	Line      int
	Automaton *domain.Automaton
	Err       error
}

// ParseAll reads every automaton block from r.
// It stops at the first block that fails and returns a *BlockError wrapping
// one of *MalformedHeaderError, *TransitionCountMismatchError or
// *TransitionLineFormatError.
func ParseAll(r io.Reader) ([]*domain.Automaton, error) {
	blocks, err := splitBlocks(r)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Automaton, 0, len(blocks))
	for _, b := range blocks {
		a, err := parseBlock(b.lines)
		if err != nil {
			return nil, &BlockError{Index: b.index, Line: b.lines[0].num, Err: err}
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseEach parses every block of r, continuing past blocks that fail.
// The returned error is only set when r itself cannot be read.
func ParseEach(r io.Reader) ([]Result, error) {
	blocks, err := splitBlocks(r)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		res := Result{Index: b.index, Line: b.lines[0].num}
		res.Automaton, res.Err = parseBlock(b.lines)
		if res.Err != nil {
			res.Err = &BlockError{Index: b.index, Line: res.Line, Err: res.Err}
		}
		out = append(out, res)
	}
	return out, nil
}

// Parse reads exactly one automaton from data.
func Parse(data []byte) (*domain.Automaton, error) {
	all, err := ParseAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, fmt.Errorf("%w, found %d", ErrBlockCount, len(all))
	}
	return all[0], nil
}

func parseBlock(lines []line) (*domain.Automaton, error) {
	if len(lines) < len(headerNames) {
		missing := len(lines)
		return nil, &MalformedHeaderError{
			Line:   lines[len(lines)-1].num + 1,
			Reason: fmt.Sprintf("missing line %d (%s)", missing, headerNames[missing]),
		}
	}

	labels, declared, err := parseLabels(lines[0])
	if err != nil {
		return nil, err
	}

	alphabet, err := parseAlphabet(lines[1])
	if err != nil {
		return nil, err
	}

	start := strings.TrimSpace(lines[2].text)
	if strings.Contains(start, ",") {
		return nil, &MalformedHeaderError{Line: lines[2].num, Reason: fmt.Sprintf("start must be a single label, got %q", start)}
	}
	if _, ok := declared[start]; !ok {
		return nil, &MalformedHeaderError{Line: lines[2].num, Reason: fmt.Sprintf("start state %q is not declared", start)}
	}

	var accepts []string
	if strings.TrimSpace(lines[3].text) != domain.EmptySetToken {
		for _, label := range splitList(lines[3].text) {
			if _, ok := declared[label]; !ok {
				return nil, &MalformedHeaderError{Line: lines[3].num, Reason: fmt.Sprintf("accept state %q is not declared", label)}
			}
			accepts = append(accepts, label)
		}
	}

	body := lines[len(headerNames):]
	want := len(labels) * len(alphabet)
	if len(body) != want {
		return nil, &TransitionCountMismatchError{Line: lines[len(lines)-1].num, Want: want, Got: len(body)}
	}

	tables := make(map[string][]domain.Transition, len(labels))
	seen := make(map[string]map[domain.Symbol]struct{}, len(labels))
	for _, ln := range body {
		from, t, err := parseTransition(ln, declared)
		if err != nil {
			return nil, err
		}
		if seen[from] == nil {
			seen[from] = make(map[domain.Symbol]struct{})
		}
		if _, dup := seen[from][t.Symbol]; dup {
			return nil, &TransitionLineFormatError{Line: ln.num, Text: ln.text, Reason: "duplicate transition for this state and symbol"}
		}
		seen[from][t.Symbol] = struct{}{}
		tables[from] = append(tables[from], t)
	}

	states := make([]*domain.State, 0, len(labels))
	for _, label := range labels {
		s, err := domain.NewState(label, tables[label]...)
		if err != nil {
			return nil, &MalformedHeaderError{Line: lines[0].num, Reason: err.Error(), Err: err}
		}
		states = append(states, s)
	}

	a, err := domain.New(states, alphabet, start, accepts)
	if err != nil {
		return nil, &MalformedHeaderError{Line: lines[0].num, Reason: err.Error(), Err: err}
	}
	return a, nil
}

func parseLabels(ln line) ([]string, map[string]struct{}, error) {
	labels := splitList(ln.text)
	declared := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		switch {
		case label == "":
			return nil, nil, &MalformedHeaderError{Line: ln.num, Reason: "empty state label"}
		case label == domain.EmptySetToken:
			return nil, nil, &MalformedHeaderError{Line: ln.num, Reason: fmt.Sprintf("%q is reserved and cannot label a state", label)}
		}
		if _, dup := declared[label]; dup {
			return nil, nil, &MalformedHeaderError{Line: ln.num, Reason: fmt.Sprintf("state %q declared twice", label)}
		}
		declared[label] = struct{}{}
	}
	return labels, declared, nil
}

func parseAlphabet(ln line) ([]domain.Symbol, error) {
	tokens := splitList(ln.text)
	alphabet := make([]domain.Symbol, 0, len(tokens))
	seen := make(map[domain.Symbol]struct{}, len(tokens))
	for _, tok := range tokens {
		sym, err := domain.ParseSymbol(tok)
		if err != nil {
			return nil, &MalformedHeaderError{Line: ln.num, Reason: err.Error(), Err: err}
		}
		if _, dup := seen[sym]; dup {
			return nil, &MalformedHeaderError{Line: ln.num, Reason: fmt.Sprintf("symbol %q declared twice", tok)}
		}
		seen[sym] = struct{}{}
		alphabet = append(alphabet, sym)
	}
	return alphabet, nil
}

func parseTransition(ln line, declared map[string]struct{}) (string, domain.Transition, error) {
	parts := splitList(ln.text)
	if len(parts) != 3 {
		return "", domain.Transition{}, &TransitionLineFormatError{
			Line:   ln.num,
			Text:   ln.text,
			Reason: fmt.Sprintf("want 3 comma-separated fields, got %d", len(parts)),
		}
	}
	from, symbol, to := parts[0], parts[1], parts[2]
	if _, ok := declared[from]; !ok {
		return "", domain.Transition{}, &TransitionLineFormatError{Line: ln.num, Text: ln.text, Reason: fmt.Sprintf("state %q is not declared", from)}
	}
	if _, ok := declared[to]; !ok {
		return "", domain.Transition{}, &TransitionLineFormatError{Line: ln.num, Text: ln.text, Reason: fmt.Sprintf("target %q is not declared", to)}
	}
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return "", domain.Transition{}, &TransitionLineFormatError{Line: ln.num, Text: ln.text, Reason: err.Error()}
	}
	return from, domain.Transition{Symbol: sym, To: to}, nil
}

// Marshal renders a in the tabular format, one line per entry, ending in a newline.
// Automata rejected by CheckTabular render, but do not parse back.
func Marshal(a *domain.Automaton) []byte {
	var buf bytes.Buffer
	writeTabular(&buf, a)
	return buf.Bytes()
}

// MarshalAll renders several automata separated by a blank line.
func MarshalAll(automata []*domain.Automaton) []byte {
	var buf bytes.Buffer
	for i, a := range automata {
		if i > 0 {
			buf.WriteByte('\n')
		}
		writeTabular(&buf, a)
	}
	return buf.Bytes()
}

func writeTabular(buf *bytes.Buffer, a *domain.Automaton) {
	buf.WriteString(strings.Join(a.StateLabels(), ", "))
	buf.WriteByte('\n')
	buf.WriteString(joinSymbols(a.Alphabet()))
	buf.WriteByte('\n')
	buf.WriteString(a.Start())
	buf.WriteByte('\n')
	if accepts := a.AcceptLabels(); len(accepts) > 0 {
		buf.WriteString(strings.Join(accepts, ", "))
	} else {
		buf.WriteString(domain.EmptySetToken)
	}
	buf.WriteByte('\n')
	for _, s := range a.States() {
		for _, t := range OrderedTransitions(a, s) {
			fmt.Fprintf(buf, "%s, %s, %s\n", s.Label(), t.Symbol, t.To)
		}
	}
}

// OrderedTransitions returns the transitions of s in alphabet order,
// followed by any off-alphabet entries in insertion order.
func OrderedTransitions(a *domain.Automaton, s *domain.State) []domain.Transition {
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

func joinSymbols(symbols []domain.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
