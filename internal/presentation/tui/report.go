package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/automata/pkg/batch"
	"github.com/muesli/termenv"
)

// ReportOptions controls how a batch report is written.
type ReportOptions struct {
	// Rich renders Markdown through glamour and colors the summary.
	Rich bool
	// Profile is the color profile used when Rich is set.
	Profile termenv.Profile
	// MaxRows limits the case table. Zero means no table.
	MaxRows int
	// Render overrides the Markdown renderer. Defaults to NewRenderer().
	Render func(string) (string, error)
}

// Summary formats the aggregate counts, prefixed by PASS or FAIL.
// A run passes when no case failed or errored.
func Summary(r batch.Report, p termenv.Profile) string {
	status := termenv.String("PASS").Bold().Foreground(p.Color("#22c55e"))
	if r.Failed > 0 || r.Errored > 0 {
		status = termenv.String("FAIL").Bold().Foreground(p.Color("#ef4444"))
	}
	return fmt.Sprintf("%s total=%d accepted=%d passed=%d failed=%d errored=%d",
		status, r.Total, r.Accepted, r.Passed, r.Failed, r.Errored)
}

// Markdown renders up to maxRows non-passing cases as a table, then passing ones.
func Markdown(r batch.Report, maxRows int) string {
	var sb strings.Builder
	sb.WriteString("# Batch report\n\n")
	sb.WriteString(fmt.Sprintf("| Total | Accepted | Passed | Failed | Errored |\n|---|---|---|---|---|\n| %d | %d | %d | %d | %d |\n",
		r.Total, r.Accepted, r.Passed, r.Failed, r.Errored))

	if maxRows <= 0 || len(r.Cases) == 0 {
		return sb.String()
	}

	sb.WriteString("\n| # | Input | Expected | Accepted | Outcome |\n|---|---|---|---|---|\n")
	rows := 0
	for _, passing := range []bool{false, true} {
		for _, c := range r.Cases {
			if rows >= maxRows {
				break
			}
			if (c.Outcome() == batch.CasePassed) != passing {
				continue
			}
			outcome := c.Outcome()
			if c.Err != nil {
				outcome += ": " + c.Err.Error()
			}
			sb.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s | %s |\n",
				c.Index, escapeCell(c.Input), batch.FormatResult(c.Expected), batch.FormatResult(c.Accepted), escapeCell(outcome)))
			rows++
		}
	}
	if rows < len(r.Cases) {
		sb.WriteString(fmt.Sprintf("\n_%d more cases not shown_\n", len(r.Cases)-rows))
	}
	return sb.String()
}

// WriteReport writes the report to w, rich or plain.
func WriteReport(w io.Writer, r batch.Report, opts ReportOptions) error {
	if !opts.Rich {
		if _, err := fmt.Fprintln(w, Summary(r, termenv.Ascii)); err != nil {
			return err
		}
		for i, c := range r.Cases {
			if i >= opts.MaxRows {
				break
			}
			if c.Outcome() == batch.CasePassed {
				continue
			}
			line := fmt.Sprintf("%s case %d: input=%q expected=%s accepted=%s",
				c.Outcome(), c.Index, c.Input, batch.FormatResult(c.Expected), batch.FormatResult(c.Accepted))
			if c.Err != nil {
				line += " err=" + c.Err.Error()
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	render := opts.Render
	if render == nil {
		render = NewRenderer()
	}
	out, err := render(Markdown(r, opts.MaxRows))
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, Summary(r, opts.Profile))
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
