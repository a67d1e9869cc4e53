// Package jsonfile persists the directory as one JSON document in the legacy
// single-imageUrl shape, the same file the bundled dataset uses.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"churchmap/internal/domain/entities"
)

// Store reads and rewrites the whole file on every call.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store for path. The file is created on the first Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads every church. A missing file is an empty directory.
func (s *Store) Load(ctx context.Context) ([]entities.Church, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []entities.Church{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return entities.DecodeLegacy(data)
}

// Save replaces the file contents. It writes a temporary file first and
// renames it over the original so a crash never leaves half a document.
func (s *Store) Save(ctx context.Context, churches []entities.Church) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := entities.EncodeLegacy(churches)
	if err != nil {
		return fmt.Errorf("encoding churches: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".churches-*.json")
	if err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}
