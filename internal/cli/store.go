package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/automata"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
)

// StorePut loads the automaton at index from path and stores it under name.
// Replacing an existing automaton prints what changed.
func StorePut(ctx context.Context, w io.Writer, eng *automata.Engine, name, path string, stdin io.Reader, index int) error {
	all, err := LoadAutomata(path, stdin)
	if err != nil {
		return err
	}
	a, err := pick(all, index, path)
	if err != nil {
		return err
	}

	// An entry that no longer parses is overwritten without a diff.
	prev, err := eng.Get(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrAutomatonNotFound) {
		if errors.Is(err, domain.ErrInvalidName) || ctx.Err() != nil {
			return fmt.Errorf("load %q: %w", name, err)
		}
		fmt.Fprintf(w, "replacing unreadable %q: %v\n", name, err)
		prev = nil
	}

	if err := eng.Put(ctx, name, a); err != nil {
		return err
	}

	if prev == nil {
		_, err = fmt.Fprintln(w, "stored "+describe(name, a))
		return err
	}
	d := domain.Diff(prev, a)
	if d == nil {
		_, err = fmt.Fprintln(w, "unchanged "+describe(name, a))
		return err
	}
	fmt.Fprintln(w, "updated "+describe(name, a))
	for _, line := range diffLines(d) {
		fmt.Fprintln(w, "  "+line)
	}
	return nil
}

func diffLines(d *domain.AutomatonDiff) []string {
	var lines []string
	if len(d.AddedStates) > 0 {
		lines = append(lines, "+ states "+strings.Join(d.AddedStates, ", "))
	}
	if len(d.RemovedStates) > 0 {
		lines = append(lines, "- states "+strings.Join(d.RemovedStates, ", "))
	}
	if len(d.AddedSymbols) > 0 {
		lines = append(lines, "+ symbols "+joinSymbols(d.AddedSymbols))
	}
	if len(d.RemovedSymbols) > 0 {
		lines = append(lines, "- symbols "+joinSymbols(d.RemovedSymbols))
	}
	if d.Start != nil {
		lines = append(lines, "~ start "+*d.Start)
	}
	if len(d.AddedAccepts) > 0 {
		lines = append(lines, "+ accepts "+strings.Join(d.AddedAccepts, ", "))
	}
	if len(d.RemovedAccepts) > 0 {
		lines = append(lines, "- accepts "+strings.Join(d.RemovedAccepts, ", "))
	}
	for _, c := range d.Transitions {
		switch {
		case c.From == "":
			lines = append(lines, fmt.Sprintf("+ (%s, %s) -> %s", c.State, c.Symbol, c.To))
		case c.To == "":
			lines = append(lines, fmt.Sprintf("- (%s, %s) -> %s", c.State, c.Symbol, c.From))
		default:
			lines = append(lines, fmt.Sprintf("~ (%s, %s) -> %s (was %s)", c.State, c.Symbol, c.To, c.From))
		}
	}
	return lines
}

func joinSymbols(symbols []domain.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// StoreList prints one summary line per stored automaton.
func StoreList(ctx context.Context, w io.Writer, eng *automata.Engine) error {
	names, err := eng.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		a, err := eng.Get(ctx, name)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			continue
		}
		fmt.Fprintln(w, describe(name, a))
	}
	return nil
}

// StoreGet writes the stored automaton in format f.
func StoreGet(ctx context.Context, w io.Writer, eng *automata.Engine, name string, f format.Format) error {
	a, err := eng.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("load %q: %w", name, err)
	}
	return format.Encode(w, f, a)
}

// StoreDelete removes a stored automaton.
func StoreDelete(ctx context.Context, eng *automata.Engine, name string) error {
	return eng.Delete(ctx, name)
}
