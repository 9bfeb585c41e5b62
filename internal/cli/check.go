package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
)

// CheckOptions configures the check command.
type CheckOptions struct {
	// Path is an automata file, or a stored name when FromStore is set.
	Path      string
	FromStore bool
	Index     int
	Inputs    []string
	Trace     bool
	JSON      bool

	Engine *automata.Engine
	Stdin  io.Reader
	Stdout io.Writer
}

// CheckResult is one evaluated input.
type CheckResult struct {
	Input    string   `json:"input"`
	Accepted bool     `json:"accepted"`
	Trace    []string `json:"trace,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Check evaluates each input and prints one line per input in the
// expectations format ("True 0101"), so the output can be replayed with run.
// Inputs that hit an undefined transition are reported and make Check return
// domain.ErrUndefinedTransition after all inputs are processed.
func Check(ctx context.Context, opts CheckOptions) ([]CheckResult, error) {
	a, err := resolveAutomaton(ctx, opts.Engine, opts.Path, opts.FromStore, opts.Index, opts.Stdin)
	if err != nil {
		return nil, err
	}

	var (
		results []CheckResult
		failed  error
	)
	for _, input := range opts.Inputs {
		res, err := opts.Engine.Evaluate(a, input)
		r := CheckResult{Input: input, Accepted: res.Accepted}
		if opts.Trace || err != nil {
			r.Trace = res.Trace
		}
		if err != nil {
			if !errors.Is(err, domain.ErrUndefinedTransition) {
				return results, err
			}
			r.Error = err.Error()
			failed = err
		}
		results = append(results, r)
	}

	if opts.JSON {
		if err := writeJSON(opts.Stdout, results); err != nil {
			return results, err
		}
	} else {
		for _, r := range results {
			if _, err := fmt.Fprintln(opts.Stdout, formatCheckLine(r, opts.Trace)); err != nil {
				return results, err
			}
		}
	}
	return results, failed
}

func formatCheckLine(r CheckResult, trace bool) string {
	var sb strings.Builder
	if r.Error != "" {
		sb.WriteString("Error")
	} else {
		sb.WriteString(batch.FormatResult(r.Accepted))
	}
	if r.Input != "" {
		sb.WriteString(" ")
		sb.WriteString(r.Input)
	}
	if trace && len(r.Trace) > 0 {
		sb.WriteString("\t")
		sb.WriteString(strings.Join(r.Trace, " -> "))
	}
	if r.Error != "" {
		sb.WriteString("\t")
		sb.WriteString(r.Error)
	}
	return sb.String()
}

func resolveAutomaton(ctx context.Context, eng *automata.Engine, path string, fromStore bool, index int, stdin io.Reader) (*domain.Automaton, error) {
	if fromStore {
		a, err := eng.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
		return a, nil
	}
	all, err := LoadAutomata(path, stdin)
	if err != nil {
		return nil, err
	}
	return pick(all, index, path)
}
