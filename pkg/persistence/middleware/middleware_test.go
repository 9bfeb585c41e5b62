package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aretw0/automata/pkg/adapters/memory"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/persistence/middleware"
	"github.com/aretw0/automata/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts backend loads.
type countingStore struct {
	ports.AutomatonStore
	loads atomic.Int32
}

func (s *countingStore) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	s.loads.Add(1)
	return s.AutomatonStore.Load(ctx, name)
}

func sample() *domain.Automaton {
	q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"})
	return domain.MustNew([]*domain.State{q}, domain.Symbols("a"), "q", []string{"q"})
}

func TestCacheMiddleware_Contract(t *testing.T) {
	ports.RunAutomatonStoreContract(t, middleware.Chain(memory.NewStore(), middleware.NewCacheMiddleware()))
}

func TestCacheMiddleware_ServesRepeatedLoads(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{AutomatonStore: memory.NewStore()}
	require.NoError(t, backend.Save(ctx, "a", sample()))

	store := middleware.NewCacheMiddleware()(backend)
	for i := 0; i < 3; i++ {
		_, err := store.Load(ctx, "a")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, backend.loads.Load())

	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
	assert.EqualValues(t, 2, backend.loads.Load())
}

func TestCacheMiddleware_SaveReplacesEntry(t *testing.T) {
	ctx := context.Background()
	store := middleware.NewCacheMiddleware()(memory.NewStore())

	require.NoError(t, store.Save(ctx, "a", sample()))
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)

	q := domain.MustState("q", domain.Transition{Symbol: 'b', To: "q"})
	next := domain.MustNew([]*domain.State{q}, domain.Symbols("b"), "q", nil)
	require.NoError(t, store.Save(ctx, "a", next))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, next.Equal(got))
}

// failingStore refuses saves once fail is set.
type failingStore struct {
	countingStore
	fail bool
}

func (s *failingStore) Save(ctx context.Context, name string, a *domain.Automaton) error {
	if s.fail {
		return errors.New("backend down")
	}
	return s.countingStore.AutomatonStore.Save(ctx, name, a)
}

func TestCacheMiddleware_FailedSaveDropsEntry(t *testing.T) {
	ctx := context.Background()
	backend := &failingStore{countingStore: countingStore{AutomatonStore: memory.NewStore()}}
	store := middleware.NewCacheMiddleware()(backend)
	require.NoError(t, store.Save(ctx, "a", sample()))

	backend.fail = true
	q := domain.MustState("q", domain.Transition{Symbol: 'b', To: "q"})
	assert.Error(t, store.Save(ctx, "a", domain.MustNew([]*domain.State{q}, domain.Symbols("b"), "q", nil)))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sample().Equal(got), "the backend still holds the first value")
	assert.EqualValues(t, 1, backend.loads.Load(), "the entry was dropped, so the load reached the backend")
}

// gatedStore holds the first Load after reading the backend until release is closed.
type gatedStore struct {
	ports.AutomatonStore
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *gatedStore) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	a, err := s.AutomatonStore.Load(ctx, name)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	return a, err
}

func TestCacheMiddleware_SaveDuringLoadWins(t *testing.T) {
	ctx := context.Background()
	backend := &gatedStore{AutomatonStore: memory.NewStore(), read: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, backend.AutomatonStore.Save(ctx, "a", sample()))
	store := middleware.NewCacheMiddleware()(backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Load(ctx, "a")
	}()

	<-backend.read
	q := domain.MustState("q", domain.Transition{Symbol: 'b', To: "q"})
	next := domain.MustNew([]*domain.State{q}, domain.Symbols("b"), "q", nil)
	require.NoError(t, store.Save(ctx, "a", next))
	close(backend.release)
	<-done

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, next.Equal(got), "a load that read before the save must not overwrite it")
}

func TestCacheMiddleware_DeleteDuringLoad(t *testing.T) {
	ctx := context.Background()
	backend := &gatedStore{AutomatonStore: memory.NewStore(), read: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, backend.AutomatonStore.Save(ctx, "a", sample()))
	store := middleware.NewCacheMiddleware()(backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Load(ctx, "a")
	}()

	<-backend.read
	require.NoError(t, store.Delete(ctx, "a"))
	close(backend.release)
	<-done

	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.Chain(memory.NewStore(), middleware.NewLoggingMiddleware(logger))

	ports.RunAutomatonStoreContract(t, store)

	buf.Reset()
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
	assert.Contains(t, buf.String(), "op=load")
	assert.Contains(t, buf.String(), "name=missing")
	assert.Contains(t, buf.String(), "error=")
}
