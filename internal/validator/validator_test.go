package validator_test

import (
	"testing"

	"github.com/aretw0/automata/internal/validator"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_TotalAutomaton(t *testing.T) {
	a, err := format.Parse([]byte("q1, q2\n0, 1\nq1\nq2\nq1, 0, q1\nq1, 1, q2\nq2, 0, q1\nq2, 1, q2\n"))
	require.NoError(t, err)

	report := validator.Validate(a)
	assert.True(t, report.Clean())
	assert.Empty(t, report.Lines())
	assert.NoError(t, report.Err(false))
}

func TestValidate_Findings(t *testing.T) {
	// q1 -0-> q1, q1 -x-> q3 (off alphabet), q2 unreachable, q3 reachable only off-alphabet
	q1 := domain.MustState("q1", domain.Transition{Symbol: '0', To: "q1"}, domain.Transition{Symbol: 'x', To: "q3"})
	q2 := domain.MustState("q2", domain.Transition{Symbol: '0', To: "q2"}, domain.Transition{Symbol: '1', To: "q2"})
	q3 := domain.MustState("q3", domain.Transition{Symbol: '0', To: "q3"}, domain.Transition{Symbol: '1', To: "q3"})
	a := domain.MustNew([]*domain.State{q1, q2, q3}, domain.Symbols("01"), "q1", []string{"q3"})

	report := validator.Validate(a)

	assert.Equal(t, []domain.MissingTransition{{State: "q1", Symbol: '1'}}, report.Missing)
	assert.Equal(t, []string{"q2", "q3"}, report.Unreachable)
	assert.Equal(t, []validator.OffAlphabet{{State: "q1", Symbol: 'x'}}, report.OffAlphabet)
	assert.False(t, report.AcceptReachable)
	assert.False(t, report.Clean())

	assert.Equal(t, []string{
		"missing transition: (q1, 1)",
		"unreachable states: q2, q3",
		"transition outside alphabet: (q1, x)",
		"no accept state is reachable from start",
	}, report.Lines())
}

func TestReport_Err(t *testing.T) {
	q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"})
	a := domain.MustNew([]*domain.State{q}, domain.Symbols("ab"), "q", []string{"q"})

	report := validator.Validate(a)
	assert.ErrorIs(t, report.Err(false), validator.ErrPartial)
	assert.NoError(t, report.Err(true))
	assert.True(t, report.AcceptReachable)
}
