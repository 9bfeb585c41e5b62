package batch_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/automata/pkg/batch"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/aretw0/automata/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endsInOne = "q1, q2\n0, 1\nq1\nq2\nq1, 0, q1\nq1, 1, q2\nq2, 0, q1\nq2, 1, q2\n"

func loadEndsInOne(t *testing.T) *domain.Automaton {
	t.Helper()
	a, err := format.Parse([]byte(endsInOne))
	require.NoError(t, err)
	return a
}

func TestParseResult(t *testing.T) {
	v, err := batch.ParseResult("True")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = batch.ParseResult("False")
	require.NoError(t, err)
	assert.False(t, v)

	for _, bad := range []string{"true", "FALSE", "1", "", "__import__('os')", "True "} {
		_, err := batch.ParseResult(bad)
		var litErr *batch.ResultLiteralError
		require.ErrorAs(t, err, &litErr, "literal %q", bad)
		assert.Equal(t, bad, litErr.Literal)
	}
}

func TestParseExpectations(t *testing.T) {
	text := "True 1\n\nFalse   0110\n  True\t101  \nFalse\n"
	got, err := batch.ParseExpectations(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, []batch.Expectation{
		{Line: 1, Expected: true, Input: "1"},
		{Line: 3, Expected: false, Input: "0110"},
		{Line: 4, Expected: true, Input: "101"},
		{Line: 5, Expected: false, Input: ""},
	}, got)
}

func TestParseExpectations_Errors(t *testing.T) {
	t.Run("Bad literal", func(t *testing.T) {
		_, err := batch.ParseExpectations(strings.NewReader("True 1\nMaybe 0\n"))
		var lineErr *batch.ExpectationLineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 2, lineErr.Line)
		var litErr *batch.ResultLiteralError
		assert.ErrorAs(t, err, &litErr)
	})

	t.Run("Too many fields", func(t *testing.T) {
		_, err := batch.ParseExpectations(strings.NewReader("True 1 0\n"))
		var lineErr *batch.ExpectationLineError
		require.ErrorAs(t, err, &lineErr)
		assert.Equal(t, 1, lineErr.Line)
	})
}

func TestFormatExpectations_RoundTrip(t *testing.T) {
	in := []batch.Expectation{
		{Line: 1, Expected: true, Input: "1"},
		{Line: 2, Expected: false, Input: ""},
	}
	var buf bytes.Buffer
	require.NoError(t, batch.FormatExpectations(&buf, in))
	assert.Equal(t, "True 1\nFalse\n", buf.String())

	out, err := batch.ParseExpectations(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRunner_SingleCase(t *testing.T) {
	a := loadEndsInOne(t)

	report, err := batch.NewRunner().Run(context.Background(),
		[]*domain.Automaton{a},
		[]batch.Expectation{{Expected: true, Input: "1"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 1, report.Passed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Errored)
}

func TestRunner_MixedOutcomes(t *testing.T) {
	a := loadEndsInOne(t)
	automata := []*domain.Automaton{a, a, a, a}
	expectations := []batch.Expectation{
		{Expected: true, Input: "01"},    // accepted, passed
		{Expected: true, Input: "10"},    // rejected, failed
		{Expected: false, Input: "0"},    // rejected, passed
		{Expected: true, Input: "01201"}, // undefined transition on '2'
	}

	report, err := batch.NewRunner(batch.WithConcurrency(2)).Run(context.Background(), automata, expectations)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Errored)

	require.Len(t, report.Cases, 4)
	assert.Equal(t, batch.CasePassed, report.Cases[0].Outcome())
	assert.Equal(t, batch.CaseFailed, report.Cases[1].Outcome())
	assert.Equal(t, batch.CasePassed, report.Cases[2].Outcome())
	assert.Equal(t, batch.CaseErrored, report.Cases[3].Outcome())
	assert.ErrorIs(t, report.Cases[3].Err, domain.ErrUndefinedTransition)
}

func TestRunner_LengthMismatch(t *testing.T) {
	a := loadEndsInOne(t)
	_, err := batch.NewRunner().Run(context.Background(), []*domain.Automaton{a}, nil)
	assert.ErrorIs(t, err, batch.ErrLengthMismatch)
}

func TestRunner_CancelledContext(t *testing.T) {
	a := loadEndsInOne(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.NewRunner(batch.WithConcurrency(1)).Run(ctx,
		[]*domain.Automaton{a, a},
		[]batch.Expectation{{Input: "1"}, {Input: "0"}},
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_CountsIndependentOfConcurrency(t *testing.T) {
	cases, err := generator.New(11).Cases(300, generator.Limits{Alphabet: 3, States: 8, Accepts: 3}, 40)
	require.NoError(t, err)

	automata := make([]*domain.Automaton, len(cases))
	expectations := make([]batch.Expectation, len(cases))
	for i, c := range cases {
		automata[i] = c.Automaton
		expectations[i] = batch.Expectation{Expected: i%2 == 0, Input: c.Input}
	}

	serial, err := batch.NewRunner(batch.WithConcurrency(1)).Run(context.Background(), automata, expectations)
	require.NoError(t, err)
	parallel, err := batch.NewRunner(batch.WithConcurrency(16)).Run(context.Background(), automata, expectations)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Zero(t, serial.Errored, "generated automata are total")
	assert.Equal(t, serial.Total, serial.Passed+serial.Failed)
}

type recorder struct {
	mu          sync.Mutex
	evaluations map[string]int
	cases       map[string]int
}

func (r *recorder) ObserveEvaluation(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluations[outcome]++
}

func (r *recorder) ObserveCase(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[outcome]++
}

func TestRunner_Recorder(t *testing.T) {
	a := loadEndsInOne(t)
	rec := &recorder{evaluations: map[string]int{}, cases: map[string]int{}}

	_, err := batch.NewRunner(batch.WithRecorder(rec)).Run(context.Background(),
		[]*domain.Automaton{a, a, a},
		[]batch.Expectation{{Expected: true, Input: "1"}, {Expected: true, Input: "0"}, {Input: "x"}},
	)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{batch.OutcomeAccepted: 1, batch.OutcomeRejected: 1, batch.OutcomeError: 1}, rec.evaluations)
	assert.Equal(t, map[string]int{batch.CasePassed: 1, batch.CaseFailed: 1, batch.CaseErrored: 1}, rec.cases)
}
