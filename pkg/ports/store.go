package ports

import (
	"context"

	"github.com/aretw0/automata/pkg/domain"
)

// AutomatonStore persists automata under a name.
// This lets the CLI, HTTP and MCP adapters share definitions across runs.
type AutomatonStore interface {
	// Save stores a under name, replacing any previous definition.
	// Returns domain.ErrInvalidName for names that fail domain.ValidateName.
	Save(ctx context.Context, name string, a *domain.Automaton) error

	// Load retrieves the automaton stored under name.
	// Returns domain.ErrAutomatonNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.Automaton, error)

	// Delete removes the automaton stored under name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}
