package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/aretw0/automata/internal/logging"
	"github.com/aretw0/automata/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// ErrLengthMismatch is returned when automata and expectations differ in length.
var ErrLengthMismatch = errors.New("automata and expectations differ in length")

// Evaluation outcomes reported to a Recorder.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Case outcomes reported to a Recorder.
const (
	CasePassed  = "passed"
	CaseFailed  = "failed"
	CaseErrored = "errored"
)

// Recorder receives per-case measurements. observability.Metrics implements it.
type Recorder interface {
	ObserveEvaluation(outcome string, d time.Duration)
	ObserveCase(outcome string)
}

// CaseResult is the outcome of one (automaton, expectation) pair.
type CaseResult struct {
	Index    int    `json:"index"`
	Input    string `json:"input"`
	Expected bool   `json:"expected"`
	Accepted bool   `json:"accepted"`
	Passed   bool   `json:"passed"`
	Err      error  `json:"-"`
}

// Outcome classifies the case as passed, failed or errored.
func (c CaseResult) Outcome() string {
	switch {
	case c.Err != nil:
		return CaseErrored
	case c.Passed:
		return CasePassed
	default:
		return CaseFailed
	}
}

// Report aggregates a batch run. Counts are order independent.
type Report struct {
	Total    int          `json:"total"`
	Accepted int          `json:"accepted"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Errored  int          `json:"errored"`
	Cases    []CaseResult `json:"cases"`
}

func (r *Report) add(c CaseResult) {
	r.Total++
	if c.Accepted {
		r.Accepted++
	}
	switch c.Outcome() {
	case CasePassed:
		r.Passed++
	case CaseFailed:
		r.Failed++
	case CaseErrored:
		r.Errored++
	}
}

// Runner evaluates batches of cases.
type Runner struct {
	concurrency int
	logger      *slog.Logger
	recorder    Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of cases evaluated at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Run evaluates automata[i] on expectations[i] for every i.
// An undefined transition marks that case as errored and does not stop the run.
// The returned error is ErrLengthMismatch or the context's error.
func (r *Runner) Run(ctx context.Context, automata []*domain.Automaton, expectations []Expectation) (Report, error) {
	if len(automata) != len(expectations) {
		return Report{}, fmt.Errorf("%w: %d automata, %d expectations", ErrLengthMismatch, len(automata), len(expectations))
	}

	report := Report{Cases: make([]CaseResult, len(automata))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range automata {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.evaluate(i, automata[i], expectations[i])
			report.Cases[i] = res

			mu.Lock()
			report.add(res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	r.logger.Info("Batch complete",
		"total", report.Total,
		"accepted", report.Accepted,
		"passed", report.Passed,
		"failed", report.Failed,
		"errored", report.Errored,
	)
	return report, nil
}

func (r *Runner) evaluate(i int, a *domain.Automaton, exp Expectation) CaseResult {
	res := CaseResult{Index: i, Input: exp.Input, Expected: exp.Expected}

	began := time.Now()
	accepted, err := a.Accepts(exp.Input)
	elapsed := time.Since(began)

	outcome := OutcomeRejected
	switch {
	case err != nil:
		res.Err = err
		outcome = OutcomeError
		r.logger.Warn("Case errored", "index", i, "input", exp.Input, "error", err)
	case accepted:
		res.Accepted = true
		outcome = OutcomeAccepted
	}
	res.Passed = err == nil && accepted == exp.Expected

	if res.Outcome() == CaseFailed {
		r.logger.Debug("Case failed", "index", i, "input", exp.Input, "expected", exp.Expected, "accepted", accepted)
	}

	if r.recorder != nil {
		r.recorder.ObserveEvaluation(outcome, elapsed)
		r.recorder.ObserveCase(res.Outcome())
	}
	return res
}
