package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/automata/internal/presentation/graph"
	"github.com/aretw0/automata/internal/validator"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
)

// Print re-encodes every automaton in path with format f.
func Print(w io.Writer, path string, stdin io.Reader, f format.Format) error {
	all, err := LoadAutomata(path, stdin)
	if err != nil {
		return err
	}
	return format.Encode(w, f, all...)
}

// PrintState writes the transitions of one state of the automaton at index,
// in the order the source declared them. YAML has no per-state form, so only
// tabular and pretty are accepted.
func PrintState(w io.Writer, path string, stdin io.Reader, index int, label string, f format.Format) error {
	all, err := LoadAutomata(path, stdin)
	if err != nil {
		return err
	}
	a, err := pick(all, index, path)
	if err != nil {
		return err
	}
	s, ok := a.State(label)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownState, label)
	}

	style := format.StyleTabular
	switch f {
	case format.FormatPretty:
		style = format.StylePretty
	case format.FormatTabular, "":
	default:
		return fmt.Errorf("format %q has no per-state form", f)
	}
	out := format.FormatState(s, style)
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Graph writes a Mermaid diagram of the automaton at index. When input is
// non-nil the run on *input is overlaid.
func Graph(w io.Writer, path string, stdin io.Reader, index int, input *string) error {
	all, err := LoadAutomata(path, stdin)
	if err != nil {
		return err
	}
	a, err := pick(all, index, path)
	if err != nil {
		return err
	}

	var overlay *graph.TraceOverlay
	if input != nil {
		trace, err := a.Trace(*input)
		overlay = &graph.TraceOverlay{Path: trace, Failed: err != nil}
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(a, overlay))
	return err
}

// Validate reports structural findings for every automaton in path.
// Tabular blocks that fail to parse are reported and the rest are still
// checked. It returns validator.ErrPartial if any automaton is missing
// transitions and allowPartial is false.
func Validate(w io.Writer, path string, stdin io.Reader, allowPartial bool) error {
	results, err := loadEach(path, stdin)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range results {
		i := res.Index
		if res.Err != nil {
			fmt.Fprintln(w, res.Err)
			errs = append(errs, res.Err)
			continue
		}
		report := validator.Validate(res.Automaton)
		if report.Clean() {
			fmt.Fprintf(w, "automaton %d: ok\n", i)
			continue
		}
		for _, line := range report.Lines() {
			fmt.Fprintf(w, "automaton %d: %s\n", i, line)
		}
		if err := report.Err(allowPartial); err != nil {
			errs = append(errs, fmt.Errorf("automaton %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// loadEach is LoadAutomata that keeps going past tabular blocks that fail.
// YAML documents are decoded as a whole.
func loadEach(path string, stdin io.Reader) ([]format.Result, error) {
	if format.FormatFor(path) != format.FormatTabular {
		all, err := LoadAutomata(path, stdin)
		if err != nil {
			return nil, err
		}
		out := make([]format.Result, len(all))
		for i, a := range all {
			out[i] = format.Result{Index: i, Automaton: a}
		}
		return out, nil
	}

	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	results, err := format.ParseEach(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// describe is a one-line summary used by the store commands.
func describe(name string, a *domain.Automaton) string {
	return fmt.Sprintf("%s: %d states, %d symbols, start %s, total=%t",
		name, len(a.StateLabels()), len(a.Alphabet()), a.Start(), a.IsTotal())
}
