package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/automata/pkg/adapters/redis"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.AutomatonStore = (*redis.Store)(nil)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func loop() *domain.Automaton {
	q := domain.MustState("q", domain.Transition{Symbol: 'a', To: "q"})
	return domain.MustNew([]*domain.State{q}, domain.Symbols("a"), "q", []string{"q"})
}

func TestRedisStore_Contract(t *testing.T) {
	_, store := setup(t)
	ports.RunAutomatonStoreContract(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, store := setup(t, redis.WithPrefix("test:"))
	require.NoError(t, store.Save(context.Background(), "loop", loop()))

	val, err := mr.Get("test:loop")
	require.NoError(t, err)
	assert.Equal(t, "q\na\nq\nq\nq, a, q\n", val)

	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"loop"}, members)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, store := setup(t, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short-lived", loop()))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrAutomatonNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, store := setup(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "not an automaton"))

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAutomatonNotFound)
}
