package automata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/automata/internal/logging"
	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/ports"
)

// Engine is the high-level entry point of the library.
// It evaluates named automata kept in an AutomatonStore.
type Engine struct {
	store       ports.AutomatonStore
	logger      *slog.Logger
	recorder    batch.Recorder
	concurrency int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the automaton store. Defaults to an in-memory store.
func WithStore(s ports.AutomatonStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRecorder sets the metrics sink for evaluations and batch cases.
func WithRecorder(rec batch.Recorder) Option {
	return func(e *Engine) {
		e.recorder = rec
	}
}

// WithConcurrency bounds batch parallelism. Values below 1 use GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// Result is the outcome of a single evaluation.
type Result struct {
	Accepted bool     `json:"accepted"`
	Trace    []string `json:"trace"`
}

// Put stores a under name, replacing any previous automaton.
func (e *Engine) Put(ctx context.Context, name string, a *domain.Automaton) error {
	if err := e.store.Save(ctx, name, a); err != nil {
		return fmt.Errorf("failed to save %q: %w", name, err)
	}
	e.logger.Info("Automaton stored", "name", name, "states", len(a.StateLabels()), "total", a.IsTotal())
	return nil
}

// Get loads the automaton stored under name.
func (e *Engine) Get(ctx context.Context, name string) (*domain.Automaton, error) {
	return e.store.Load(ctx, name)
}

// Delete removes the automaton stored under name.
func (e *Engine) Delete(ctx context.Context, name string) error {
	if err := e.store.Delete(ctx, name); err != nil {
		return err
	}
	e.logger.Info("Automaton deleted", "name", name)
	return nil
}

// List returns the stored names in ascending order.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// Check evaluates the named automaton on input.
// On an undefined transition the partial trace is returned with the error.
func (e *Engine) Check(ctx context.Context, name, input string) (Result, error) {
	a, err := e.store.Load(ctx, name)
	if err != nil {
		return Result{}, err
	}
	return e.Evaluate(a, input)
}

// Evaluate runs a on input and reports the outcome to the recorder.
func (e *Engine) Evaluate(a *domain.Automaton, input string) (Result, error) {
	began := time.Now()
	trace, err := a.Trace(input)
	elapsed := time.Since(began)

	res := Result{Trace: trace}
	outcome := batch.OutcomeRejected
	switch {
	case err != nil:
		outcome = batch.OutcomeError
		var undefined *domain.UndefinedTransitionError
		if errors.As(err, &undefined) {
			e.logger.Debug("Undefined transition", "state", undefined.State, "symbol", undefined.Symbol.String())
		}
	case a.IsAccept(trace[len(trace)-1]):
		res.Accepted = true
		outcome = batch.OutcomeAccepted
	}

	if e.recorder != nil {
		e.recorder.ObserveEvaluation(outcome, elapsed)
	}
	return res, err
}

// Batch evaluates every expectation against the named automaton.
func (e *Engine) Batch(ctx context.Context, name string, expectations []batch.Expectation) (batch.Report, error) {
	a, err := e.store.Load(ctx, name)
	if err != nil {
		return batch.Report{}, err
	}
	automata := make([]*domain.Automaton, len(expectations))
	for i := range automata {
		automata[i] = a
	}
	return e.Runner().Run(ctx, automata, expectations)
}

// Runner returns a batch.Runner configured like the engine.
func (e *Engine) Runner() *batch.Runner {
	opts := []batch.Option{
		batch.WithLogger(e.logger),
		batch.WithConcurrency(e.concurrency),
	}
	if e.recorder != nil {
		opts = append(opts, batch.WithRecorder(e.recorder))
	}
	return batch.NewRunner(opts...)
}
