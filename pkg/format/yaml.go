package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the YAML shape of an automaton. Symbols are strings so that
// both quoted and bare numeric keys decode.
type document struct {
	States      []string                     `mapstructure:"states"`
	Alphabet    []string                     `mapstructure:"alphabet"`
	Start       string                       `mapstructure:"start"`
	Accepts     []string                     `mapstructure:"accepts"`
	Transitions map[string]map[string]string `mapstructure:"transitions"`
}

// UnmarshalYAML decodes one automaton per YAML document in data.
func UnmarshalYAML(data []byte) ([]*domain.Automaton, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*domain.Automaton
	for i := 0; ; i++ {
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse yaml document %d: %w", i, err)
		}
		if raw == nil {
			continue
		}
		a, err := fromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("yaml document %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func fromRaw(raw map[string]any) (*domain.Automaton, error) {
	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode automaton: %w", err)
	}
	return doc.build()
}

func (d document) build() (*domain.Automaton, error) {
	alphabet := make([]domain.Symbol, 0, len(d.Alphabet))
	for _, tok := range d.Alphabet {
		sym, err := domain.ParseSymbol(tok)
		if err != nil {
			return nil, err
		}
		alphabet = append(alphabet, sym)
	}

	declared := make(map[string]struct{}, len(d.States))
	for _, label := range d.States {
		declared[label] = struct{}{}
	}
	for from := range d.Transitions {
		if _, ok := declared[from]; !ok {
			return nil, fmt.Errorf("%w: transitions for %q", domain.ErrUnknownState, from)
		}
	}

	states := make([]*domain.State, 0, len(d.States))
	for _, label := range d.States {
		table := d.Transitions[label]
		transitions := make([]domain.Transition, 0, len(table))
		used := make(map[string]bool, len(table))
		for _, sym := range alphabet {
			if to, ok := table[sym.String()]; ok {
				transitions = append(transitions, domain.Transition{Symbol: sym, To: to})
				used[sym.String()] = true
			}
		}
		extra := make([]string, 0)
		for tok := range table {
			if !used[tok] {
				extra = append(extra, tok)
			}
		}
		sort.Strings(extra)
		for _, tok := range extra {
			sym, err := domain.ParseSymbol(tok)
			if err != nil {
				return nil, fmt.Errorf("state %q: %w", label, err)
			}
			transitions = append(transitions, domain.Transition{Symbol: sym, To: table[tok]})
		}

		s, err := domain.NewState(label, transitions...)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}

	return domain.New(states, alphabet, d.Start, d.Accepts)
}

type yamlDocument struct {
	States      []string   `yaml:"states,flow"`
	Alphabet    []string   `yaml:"alphabet,flow"`
	Start       string     `yaml:"start"`
	Accepts     []string   `yaml:"accepts,flow"`
	Transitions *yaml.Node `yaml:"transitions"`
}

// MarshalYAML renders automata as a stream of YAML documents.
// Per-state tables are written in alphabet order.
func MarshalYAML(automata ...*domain.Automaton) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, a := range automata {
		if err := enc.Encode(toDocument(a)); err != nil {
			return nil, fmt.Errorf("failed to encode automaton: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toDocument(a *domain.Automaton) yamlDocument {
	alphabet := make([]string, 0, len(a.Alphabet()))
	for _, s := range a.Alphabet() {
		alphabet = append(alphabet, s.String())
	}

	table := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range a.States() {
		row := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		for _, t := range OrderedTransitions(a, s) {
			row.Content = append(row.Content, strNode(t.Symbol.String()), strNode(t.To))
		}
		table.Content = append(table.Content, strNode(s.Label()), row)
	}

	accepts := a.AcceptLabels()
	if accepts == nil {
		accepts = []string{}
	}

	return yamlDocument{
		States:      a.StateLabels(),
		Alphabet:    alphabet,
		Start:       a.Start(),
		Accepts:     accepts,
		Transitions: table,
	}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
