package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/automata/pkg/domain"
)

// Store implements ports.AutomatonStore in memory.
// Safe for concurrent use. Automata are immutable, so they are shared, not copied.
type Store struct {
	data map[string]*domain.Automaton
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Automaton),
	}
}

// Save stores the automaton under name.
func (s *Store) Save(ctx context.Context, name string, a *domain.Automaton) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = a
	return nil
}

// Load retrieves the automaton from memory.
func (s *Store) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[name]
	if !ok {
		return nil, domain.ErrAutomatonNotFound
	}
	return a, nil
}

// Delete removes the automaton.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
