package middleware

import (
	"context"
	"sync"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/ports"
)

type cacheMiddleware struct {
	next ports.AutomatonStore

	mu      sync.Mutex
	entries map[string]*domain.Automaton
	// gens counts writes per name. A fill whose generation moved while the
	// backend call was in flight is dropped.
	gens map[string]uint64
}

// NewCacheMiddleware keeps loaded automata in memory so repeated loads skip
// the backend and the parser. Save and Delete through the wrapper invalidate
// the entry; writes made by other processes are not seen until then.
// Automata are immutable, so cached values are shared between callers.
func NewCacheMiddleware() Middleware {
	return func(next ports.AutomatonStore) ports.AutomatonStore {
		return &cacheMiddleware{
			next:    next,
			entries: make(map[string]*domain.Automaton),
			gens:    make(map[string]uint64),
		}
	}
}

func (m *cacheMiddleware) Save(ctx context.Context, name string, a *domain.Automaton) error {
	gen := m.invalidate(name)
	if err := m.next.Save(ctx, name, a); err != nil {
		return err
	}
	m.fill(name, gen, a)
	return nil
}

func (m *cacheMiddleware) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	m.mu.Lock()
	a, ok := m.entries[name]
	gen := m.gens[name]
	m.mu.Unlock()
	if ok {
		return a, nil
	}

	a, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	m.fill(name, gen, a)
	return a, nil
}

func (m *cacheMiddleware) Delete(ctx context.Context, name string) error {
	m.invalidate(name)
	err := m.next.Delete(ctx, name)
	// Loads that overlapped the delete must not repopulate the entry.
	m.invalidate(name)
	return err
}

func (m *cacheMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// invalidate drops the entry and returns the new generation of name.
func (m *cacheMiddleware) invalidate(name string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	m.gens[name]++
	return m.gens[name]
}

// fill caches a unless name was written since gen was read.
func (m *cacheMiddleware) fill(name string, gen uint64, a *domain.Automaton) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[name] == gen {
		m.entries[name] = a
	}
}
