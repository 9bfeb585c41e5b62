package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
)

// StdinPath is the path argument that reads from standard input.
const StdinPath = "-"

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which signal arrived.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	sig    atomic.Value
}

// NewSignalContext derives a SignalContext from parent.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.sig.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sig, _ := sc.sig.Load().(os.Signal)
	return sig
}

// readInput reads a file, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// LoadAutomata decodes every automaton in path. The format follows the
// extension: .yaml and .yml are YAML, anything else is tabular.
func LoadAutomata(path string, stdin io.Reader) ([]*domain.Automaton, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	all, err := format.Decode(format.FormatFor(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return all, nil
}

// pick returns the automaton at index, checking bounds.
func pick(all []*domain.Automaton, index int, path string) (*domain.Automaton, error) {
	if index < 0 || index >= len(all) {
		return nil, fmt.Errorf("%s holds %d automata, no index %d", path, len(all), index)
	}
	return all[index], nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
