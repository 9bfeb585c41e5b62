package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/automata/internal/presentation/tui"
	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/muesli/termenv"
)

// ErrCasesFailed is returned by RunBatch when any case failed or errored.
var ErrCasesFailed = errors.New("batch had failing cases")

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	AutomataPath     string
	ExpectationsPath string
	// Broadcast pairs a single automaton with every expectation.
	Broadcast bool
	MaxRows   int
	JSON      bool

	Runner *batch.Runner
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// RunBatch loads automata and expectations, evaluates them pairwise and
// writes the report. Mismatches are reported, then surface as ErrCasesFailed.
func RunBatch(ctx context.Context, opts RunOptions) (batch.Report, error) {
	automata, err := LoadAutomata(opts.AutomataPath, opts.Stdin)
	if err != nil {
		return batch.Report{}, err
	}

	data, err := readInput(opts.ExpectationsPath, opts.Stdin)
	if err != nil {
		return batch.Report{}, err
	}
	expectations, err := batch.ParseExpectations(bytes.NewReader(data))
	if err != nil {
		return batch.Report{}, fmt.Errorf("%s: %w", opts.ExpectationsPath, err)
	}

	if opts.Broadcast {
		if len(automata) != 1 {
			return batch.Report{}, fmt.Errorf("--broadcast needs exactly one automaton, %s holds %d", opts.AutomataPath, len(automata))
		}
		one := automata[0]
		automata = make([]*domain.Automaton, len(expectations))
		for i := range automata {
			automata[i] = one
		}
	}

	opts.Logger.Debug("Batch loaded", "automata", len(automata), "expectations", len(expectations))

	report, err := opts.Runner.Run(ctx, automata, expectations)
	if err != nil {
		return report, err
	}

	if err := writeBatchReport(opts, report); err != nil {
		return report, err
	}
	if report.Failed > 0 || report.Errored > 0 {
		return report, fmt.Errorf("%w: %d failed, %d errored", ErrCasesFailed, report.Failed, report.Errored)
	}
	return report, nil
}

func writeBatchReport(opts RunOptions, report batch.Report) error {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	if opts.JSON {
		return writeJSON(out, report)
	}

	rich := false
	if f, ok := out.(*os.File); ok {
		rich = tui.IsTerminal(f)
	}
	return tui.WriteReport(out, report, tui.ReportOptions{
		Rich:    rich,
		Profile: termenv.ColorProfile(),
		MaxRows: opts.MaxRows,
	})
}
