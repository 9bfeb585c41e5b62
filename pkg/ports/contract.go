package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractAutomaton accepts binary strings ending in 1. Its q1 table lists
// '1' before '0' to check that stores do not depend on insertion order.
func contractAutomaton() *domain.Automaton {
	q1 := domain.MustState("q1", domain.Transition{Symbol: '1', To: "q2"}, domain.Transition{Symbol: '0', To: "q1"})
	q2 := domain.MustState("q2", domain.Transition{Symbol: '0', To: "q1"}, domain.Transition{Symbol: '1', To: "q2"})
	return domain.MustNew([]*domain.State{q1, q2}, domain.Symbols("01"), "q1", []string{"q2"})
}

// RunAutomatonStoreContract runs a suite of tests to verify that an AutomatonStore
// implementation adheres to the defined interface contract.
func RunAutomatonStoreContract(t *testing.T, store AutomatonStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		a := contractAutomaton()

		err := store.Save(ctx, name, a)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, a.Equal(loaded), "loaded automaton differs from saved one")

		ok, err := loaded.Accepts("0101")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"})
		replacement := domain.MustNew([]*domain.State{q}, domain.Symbols("a"), "q", nil)

		require.NoError(t, store.Save(ctx, name, replacement))
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.True(t, replacement.Equal(loaded))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		err := store.Save(ctx, "../escape", contractAutomaton())
		assert.ErrorIs(t, err, domain.ErrInvalidName)

		_, err = store.Load(ctx, "../escape")
		assert.ErrorIs(t, err, domain.ErrInvalidName)

		assert.ErrorIs(t, store.Delete(ctx, "../escape"), domain.ErrInvalidName)
	})

	// A store either round-trips an automaton or refuses it with
	// format.ErrNotTabular; it never saves what it cannot load.
	t.Run("Partial and Off-Alphabet Tables", func(t *testing.T) {
		partial := domain.MustNew(
			[]*domain.State{domain.MustState("q1", domain.Transition{Symbol: '0', To: "q1"})},
			domain.Symbols("01"), "q1", []string{"q1"})
		offAlphabet := domain.MustNew(
			[]*domain.State{domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"}, domain.Transition{Symbol: 'z', To: "q"})},
			domain.Symbols("a"), "q", []string{"q"})

		for label, a := range map[string]*domain.Automaton{"partial": partial, "off-alphabet": offAlphabet} {
			key := name + "-" + label
			err := store.Save(ctx, key, a)
			if err != nil {
				assert.ErrorIs(t, err, format.ErrNotTabular, label)
				_, err = store.Load(ctx, key)
				assert.ErrorIs(t, err, domain.ErrAutomatonNotFound, label)
				continue
			}
			loaded, err := store.Load(ctx, key)
			require.NoError(t, err, label)
			assert.True(t, a.Equal(loaded), label)
			require.NoError(t, store.Delete(ctx, key))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractAutomaton()))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrAutomatonNotFound, "Load after Delete should return ErrAutomatonNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id2, contractAutomaton()))
		require.NoError(t, store.Save(ctx, id1, contractAutomaton()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsIncreasing(t, names, fmt.Sprintf("names should be sorted: %v", names))
	})
}
