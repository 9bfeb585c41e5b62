package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
)

// Extension is appended to automaton names to form file names.
const Extension = ".dfa"

// Store implements ports.AutomatonStore using the local filesystem.
// Each automaton is one tabular-format file in BasePath.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".automata/store".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".automata", "store")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+Extension)
}

// Save writes the automaton atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
// Automata the tabular format cannot hold are refused with format.ErrNotTabular.
func (s *Store) Save(ctx context.Context, name string, a *domain.Automaton) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	if err := format.CheckTabular(a); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure store directory: %w", err)
	}

	destPath := s.path(name)

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+Extension)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(format.Marshal(a)); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing automaton file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}

// Load reads and parses the automaton file.
func (s *Store) Load(ctx context.Context, name string) (*domain.Automaton, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAutomatonNotFound
		}
		return nil, fmt.Errorf("failed to read automaton file: %w", err)
	}

	a, err := format.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path(name), err)
	}
	return a, nil
}

// Delete removes the automaton file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete automaton file: %w", err)
	}

	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list automata: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		fname := entry.Name()
		if entry.IsDir() || filepath.Ext(fname) != Extension || strings.HasPrefix(fname, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(fname, Extension))
	}
	sort.Strings(names)

	return names, nil
}
