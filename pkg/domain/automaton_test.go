package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endsInOne accepts binary strings whose last symbol is 1.
func endsInOne(t *testing.T) *domain.Automaton {
	t.Helper()
	q1 := domain.MustState("q1", domain.Transition{Symbol: '0', To: "q1"}, domain.Transition{Symbol: '1', To: "q2"})
	q2 := domain.MustState("q2", domain.Transition{Symbol: '0', To: "q1"}, domain.Transition{Symbol: '1', To: "q2"})
	a, err := domain.New([]*domain.State{q1, q2}, domain.Symbols("01"), "q1", []string{"q2"})
	require.NoError(t, err)
	return a
}

func TestAutomaton_Accepts_EndsInOne(t *testing.T) {
	a := endsInOne(t)

	cases := []struct {
		input string
		want  bool
	}{
		{"10110101010101010100000000000", false},
		{"100000000000000000000000001", true},
		{"111111111111111111111111111", true},
		{"0", false},
		{"1", true},
	}

	for _, tc := range cases {
		got, err := a.Accepts(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestAutomaton_Accepts_EmptyInput(t *testing.T) {
	a := endsInOne(t)
	got, err := a.Accepts("")
	require.NoError(t, err)
	assert.False(t, got, "q1 is not an accept state")

	q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"})
	loop := domain.MustNew([]*domain.State{q}, domain.Symbols("a"), "q", []string{"q"})
	got, err = loop.Accepts("")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestAutomaton_Accepts_UndefinedTransition(t *testing.T) {
	q1 := domain.MustState("q1", domain.Transition{Symbol: '0', To: "q1"})
	a := domain.MustNew([]*domain.State{q1}, domain.Symbols("01"), "q1", []string{"q1"})

	accepted, err := a.Accepts("1000")
	require.Error(t, err)
	assert.False(t, accepted)

	var undefined *domain.UndefinedTransitionError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "q1", undefined.State)
	assert.Equal(t, domain.Symbol('1'), undefined.Symbol)
	assert.True(t, errors.Is(err, domain.ErrUndefinedTransition))
}

func TestAutomaton_Accepts_OffAlphabetSymbolIsConsumedWhenMapped(t *testing.T) {
	q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"}, domain.Transition{Symbol: 'z', To: "q"})
	a := domain.MustNew([]*domain.State{q}, domain.Symbols("a"), "q", []string{"q"})

	assert.False(t, a.HasSymbol('z'))
	got, err := a.Accepts("azaz")
	require.NoError(t, err)
	assert.True(t, got)

	_, err = a.Accepts("ab")
	assert.ErrorIs(t, err, domain.ErrUndefinedTransition)
}

func TestAutomaton_AcceptsSymbols_MatchesAccepts(t *testing.T) {
	a := endsInOne(t)
	for _, in := range []string{"", "0", "01", "0110", "1111"} {
		want, err := a.Accepts(in)
		require.NoError(t, err)
		got, err := a.AcceptsSymbols(domain.Symbols(in))
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestAutomaton_Trace(t *testing.T) {
	a := endsInOne(t)

	path, err := a.Trace("0110")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q1", "q2", "q2", "q1"}, path)

	path, err = a.Trace("")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, path)

	path, err = a.Trace("01x1")
	assert.ErrorIs(t, err, domain.ErrUndefinedTransition)
	assert.Equal(t, []string{"q1", "q1", "q2"}, path)
}

func TestAutomaton_LongInputTakesOneStepPerSymbol(t *testing.T) {
	a := endsInOne(t)
	input := strings.Repeat("01", 5000) + "1"
	path, err := a.Trace(input)
	require.NoError(t, err)
	assert.Len(t, path, len(input)+1)
}

func TestNew_Invariants(t *testing.T) {
	q1 := domain.MustState("q1", domain.Transition{Symbol: '0', To: "q1"})

	t.Run("Unknown start", func(t *testing.T) {
		_, err := domain.New([]*domain.State{q1}, domain.Symbols("0"), "q9", nil)
		assert.ErrorIs(t, err, domain.ErrUnknownState)
	})

	t.Run("Unknown accept", func(t *testing.T) {
		_, err := domain.New([]*domain.State{q1}, domain.Symbols("0"), "q1", []string{"q9"})
		assert.ErrorIs(t, err, domain.ErrUnknownState)
	})

	t.Run("Unknown target", func(t *testing.T) {
		bad := domain.MustState("q1", domain.Transition{Symbol: '0', To: "nowhere"})
		_, err := domain.New([]*domain.State{bad}, domain.Symbols("0"), "q1", nil)
		assert.ErrorIs(t, err, domain.ErrUnknownState)
	})

	t.Run("Duplicate state", func(t *testing.T) {
		_, err := domain.New([]*domain.State{q1, q1}, domain.Symbols("0"), "q1", nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateState)
	})

	t.Run("Duplicate symbol", func(t *testing.T) {
		_, err := domain.New([]*domain.State{q1}, domain.Symbols("00"), "q1", nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateSymbol)
	})

	t.Run("Empty alphabet", func(t *testing.T) {
		_, err := domain.New([]*domain.State{q1}, nil, "q1", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyAlphabet)
	})

	t.Run("Duplicate accepts collapse", func(t *testing.T) {
		a, err := domain.New([]*domain.State{q1}, domain.Symbols("0"), "q1", []string{"q1", "q1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"q1"}, a.AcceptLabels())
	})
}

func TestNewState_Validation(t *testing.T) {
	for _, label := range []string{"", "-", " q", "a,b", "a\nb"} {
		_, err := domain.NewState(label)
		assert.ErrorIs(t, err, domain.ErrInvalidLabel, "label %q", label)
	}

	_, err := domain.NewState("q", domain.Transition{Symbol: ',', To: "q"})
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = domain.NewState("q", domain.Transition{Symbol: 'a', To: "q"}, domain.Transition{Symbol: 'a', To: "r"})
	assert.ErrorIs(t, err, domain.ErrDuplicateTransition)
}

func TestState_Lookup(t *testing.T) {
	s := domain.MustState("q1", domain.Transition{Symbol: '1', To: "q2"}, domain.Transition{Symbol: '0', To: "q1"})

	to, ok := s.Lookup('1')
	assert.True(t, ok)
	assert.Equal(t, "q2", to)

	_, ok = s.Lookup('x')
	assert.False(t, ok)

	_, err := s.Transition('x')
	var undefined *domain.UndefinedTransitionError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "q1", undefined.State)

	// Insertion order is preserved.
	assert.Equal(t, []domain.Transition{{Symbol: '1', To: "q2"}, {Symbol: '0', To: "q1"}}, s.Transitions())
}

func TestAutomaton_Missing(t *testing.T) {
	a := endsInOne(t)
	assert.True(t, a.IsTotal())
	assert.Empty(t, a.Missing())

	q1 := domain.MustState("q1", domain.Transition{Symbol: '0', To: "q2"})
	q2 := domain.MustState("q2")
	partial := domain.MustNew([]*domain.State{q1, q2}, domain.Symbols("01"), "q1", nil)
	assert.False(t, partial.IsTotal())
	assert.Equal(t, []domain.MissingTransition{
		{State: "q1", Symbol: '1'},
		{State: "q2", Symbol: '0'},
		{State: "q2", Symbol: '1'},
	}, partial.Missing())
}

func TestAutomaton_Equal(t *testing.T) {
	a := endsInOne(t)
	b := endsInOne(t)
	assert.True(t, a.Equal(b))

	// Same table, different insertion order.
	q1 := domain.MustState("q1", domain.Transition{Symbol: '1', To: "q2"}, domain.Transition{Symbol: '0', To: "q1"})
	q2 := domain.MustState("q2", domain.Transition{Symbol: '1', To: "q2"}, domain.Transition{Symbol: '0', To: "q1"})
	c := domain.MustNew([]*domain.State{q1, q2}, domain.Symbols("01"), "q1", []string{"q2"})
	assert.True(t, a.Equal(c))

	d := domain.MustNew([]*domain.State{q1, q2}, domain.Symbols("01"), "q1", []string{"q1"})
	assert.False(t, a.Equal(d))

	e := domain.MustNew([]*domain.State{q1, q2}, domain.Symbols("10"), "q1", []string{"q2"})
	assert.False(t, a.Equal(e), "alphabet order matters")
}

func TestParseSymbol(t *testing.T) {
	sym, err := domain.ParseSymbol("é")
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol('é'), sym)

	for _, bad := range []string{"", "ab", ",", " "} {
		_, err := domain.ParseSymbol(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidSymbol, "token %q", bad)
	}
}
