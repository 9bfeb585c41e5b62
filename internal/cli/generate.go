package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/aretw0/automata/pkg/generator"
)

// GenerateOptions configures the accept-rate experiment.
type GenerateOptions struct {
	Seed   uint64
	Trials int
	Limits generator.Limits
	MaxLen int

	// AutomataOut and ExpectationsOut, when set, receive the generated cases
	// as a tabular file and a matching expectations file.
	AutomataOut     string
	ExpectationsOut string

	Runner *batch.Runner
	Logger *slog.Logger
	Stdout io.Writer
}

// Generate draws random automata with one random input each, evaluates them
// and prints the fraction of accepted inputs.
func Generate(ctx context.Context, opts GenerateOptions) (batch.Report, error) {
	if opts.Trials < 1 {
		return batch.Report{}, fmt.Errorf("%w: trials %d", generator.ErrInvalidLimits, opts.Trials)
	}

	cases, err := generator.New(opts.Seed).Cases(opts.Trials, opts.Limits, opts.MaxLen)
	if err != nil {
		return batch.Report{}, err
	}

	automata := make([]*domain.Automaton, len(cases))
	expectations := make([]batch.Expectation, len(cases))
	for i, c := range cases {
		automata[i] = c.Automaton
		expectations[i] = batch.Expectation{Line: i + 1, Input: c.Input}
	}

	report, err := opts.Runner.Run(ctx, automata, expectations)
	if err != nil {
		return report, err
	}

	rate := 100 * float64(report.Accepted) / float64(report.Total)
	opts.Logger.Info("Experiment complete", "seed", opts.Seed, "trials", report.Total, "accepted", report.Accepted)
	if _, err := fmt.Fprintf(opts.Stdout, "Accept rate: %.2f %% (%d/%d, seed %d)\n", rate, report.Accepted, report.Total, opts.Seed); err != nil {
		return report, err
	}

	if opts.AutomataOut != "" {
		if err := os.WriteFile(opts.AutomataOut, format.MarshalAll(automata), 0o644); err != nil {
			return report, fmt.Errorf("failed to write automata: %w", err)
		}
	}
	if opts.ExpectationsOut != "" {
		for i, c := range report.Cases {
			expectations[i].Expected = c.Accepted
		}
		f, err := os.Create(opts.ExpectationsOut)
		if err != nil {
			return report, fmt.Errorf("failed to write expectations: %w", err)
		}
		defer f.Close()
		if err := batch.FormatExpectations(f, expectations); err != nil {
			return report, fmt.Errorf("failed to write expectations: %w", err)
		}
	}
	return report, nil
}
