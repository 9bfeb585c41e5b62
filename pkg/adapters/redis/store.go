package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces automaton keys.
const DefaultPrefix = "automata:dfa:"

// Store implements ports.AutomatonStore using Redis.
// Automata are stored as tabular text; a sorted set indexes the names.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored automata.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save stores the automaton and indexes its name. Automata the tabular
// format cannot hold are refused with format.ErrNotTabular.
func (s *Store) Save(ctx context.Context, name string, a *domain.Automaton) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	if err := format.CheckTabular(a); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), format.Marshal(a), s.ttl)

	// Score is the expiry time; without a TTL entries never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and parses the automaton.
func (s *Store) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrAutomatonNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	a, err := format.Parse(val)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored automaton %q: %w", name, err)
	}
	return a, nil
}

// Delete removes the automaton and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries and returns the rest in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired automata: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list automata: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
