package generator_test

import (
	"testing"

	"github.com/aretw0/automata/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_AutomatonIsTotalAndBounded(t *testing.T) {
	g := generator.New(42)
	limits := generator.Limits{Alphabet: 3, States: 8, Accepts: 3}

	for i := 0; i < 200; i++ {
		a, err := g.Automaton(limits)
		require.NoError(t, err)

		assert.True(t, a.IsTotal())
		assert.Equal(t, "q_0", a.Start())
		assert.LessOrEqual(t, len(a.Alphabet()), 3)
		assert.LessOrEqual(t, len(a.StateLabels()), 8)
		assert.LessOrEqual(t, len(a.AcceptLabels()), 3)
		assert.LessOrEqual(t, len(a.AcceptLabels()), len(a.StateLabels()))

		in := g.String(a.Alphabet(), 50)
		assert.Len(t, []rune(in), 50)
		_, err = a.Accepts(in)
		assert.NoError(t, err, "total automata never hit an undefined transition")
	}
}

func TestGenerator_SameSeedSameOutput(t *testing.T) {
	limits := generator.Limits{Alphabet: 10, States: 10, Accepts: 2}

	a, err := generator.New(7).Cases(20, limits, 30)
	require.NoError(t, err)
	b, err := generator.New(7).Cases(20, limits, 30)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.True(t, a[i].Automaton.Equal(b[i].Automaton), "case %d", i)
		assert.Equal(t, a[i].Input, b[i].Input)
	}
}

func TestGenerator_AlphabetCappedAtUniversal(t *testing.T) {
	g := generator.New(1)
	for i := 0; i < 50; i++ {
		a, err := g.Automaton(generator.Limits{Alphabet: 1000, States: 1, Accepts: 1})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(a.Alphabet()), len(generator.UniversalAlphabet))
		assert.Equal(t, []string{"q_0"}, a.AcceptLabels())
	}
}

func TestLimits_Validate(t *testing.T) {
	bad := []generator.Limits{
		{Alphabet: 0, States: 1, Accepts: 1},
		{Alphabet: 1, States: 0, Accepts: 0},
		{Alphabet: 1, States: 2, Accepts: 3},
		{Alphabet: 1, States: 2, Accepts: -1},
	}
	for _, l := range bad {
		assert.ErrorIs(t, l.Validate(), generator.ErrInvalidLimits, "%+v", l)
	}

	_, err := generator.New(1).Cases(1, generator.Limits{Alphabet: 1, States: 1, Accepts: 1}, 0)
	assert.ErrorIs(t, err, generator.ErrInvalidLimits)
}
