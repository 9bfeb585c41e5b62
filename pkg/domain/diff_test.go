package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endsInOne() *Automaton {
	q1 := MustState("q1", Transition{Symbol: '0', To: "q1"}, Transition{Symbol: '1', To: "q2"})
	q2 := MustState("q2", Transition{Symbol: '0', To: "q1"}, Transition{Symbol: '1', To: "q2"})
	return MustNew([]*State{q1, q2}, Symbols("01"), "q1", []string{"q2"})
}

func TestDiff(t *testing.T) {
	t.Run("Initial load", func(t *testing.T) {
		d := Diff(nil, endsInOne())
		require.NotNil(t, d)
		assert.Equal(t, []string{"q1", "q2"}, d.AddedStates)
		assert.Equal(t, Symbols("01"), d.AddedSymbols)
		require.NotNil(t, d.Start)
		assert.Equal(t, "q1", *d.Start)
		assert.Equal(t, []string{"q2"}, d.AddedAccepts)
		assert.Len(t, d.Transitions, 4)
		assert.Empty(t, d.Transitions[0].From)
	})

	t.Run("No changes", func(t *testing.T) {
		assert.Nil(t, Diff(endsInOne(), endsInOne()))
	})

	t.Run("Nil new", func(t *testing.T) {
		assert.Nil(t, Diff(endsInOne(), nil))
	})

	t.Run("Retarget, drop and add", func(t *testing.T) {
		q1 := MustState("q1", Transition{Symbol: '0', To: "q3"}, Transition{Symbol: '1', To: "q3"})
		q3 := MustState("q3", Transition{Symbol: '0', To: "q1"}, Transition{Symbol: '1', To: "q3"}, Transition{Symbol: '2', To: "q3"})
		next := MustNew([]*State{q1, q3}, Symbols("012"), "q1", []string{"q1", "q3"})

		d := Diff(endsInOne(), next)
		require.NotNil(t, d)
		assert.Equal(t, []string{"q3"}, d.AddedStates)
		assert.Equal(t, []string{"q2"}, d.RemovedStates)
		assert.Equal(t, Symbols("2"), d.AddedSymbols)
		assert.Empty(t, d.RemovedSymbols)
		assert.Nil(t, d.Start)
		assert.Equal(t, []string{"q1", "q3"}, d.AddedAccepts)
		assert.Equal(t, []string{"q2"}, d.RemovedAccepts)

		assert.Equal(t, []TransitionChange{
			{State: "q1", Symbol: '0', From: "q1", To: "q3"},
			{State: "q1", Symbol: '1', From: "q2", To: "q3"},
			{State: "q3", Symbol: '0', To: "q1"},
			{State: "q3", Symbol: '1', To: "q3"},
			{State: "q3", Symbol: '2', To: "q3"},
			{State: "q2", Symbol: '0', From: "q1"},
			{State: "q2", Symbol: '1', From: "q2"},
		}, d.Transitions)
	})

	t.Run("Removed entry in kept state", func(t *testing.T) {
		q1 := MustState("q1", Transition{Symbol: '0', To: "q1"})
		q2 := MustState("q2", Transition{Symbol: '0', To: "q1"}, Transition{Symbol: '1', To: "q2"})
		partial := MustNew([]*State{q1, q2}, Symbols("01"), "q1", []string{"q2"})

		d := Diff(endsInOne(), partial)
		require.NotNil(t, d)
		assert.Equal(t, []TransitionChange{{State: "q1", Symbol: '1', From: "q2"}}, d.Transitions)
	})
}
