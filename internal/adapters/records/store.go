// Package records persists the installed-binaries record.
package records

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/NoSpawnn/bow/internal/adapters/config"
	bowfs "github.com/NoSpawnn/bow/internal/adapters/fs"
	"github.com/NoSpawnn/bow/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileName is the record's file name inside the state directory.
const FileName = "binaries.yaml"

// Store implements ports.RecordStore using a YAML file in the
// configuration's binary entry schema.
type Store struct {
	path       string
	normalizer *config.Normalizer
	mu         sync.Mutex
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{
		path:       filepath.Clean(path),
		normalizer: config.NewNormalizer(),
	}
}

// Path returns the location of the record.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing file is created empty.
func (s *Store) Load() ([]domain.BinaryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.write(nil); err != nil {
				return nil, err
			}
			return []domain.BinaryItem{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read installed record"), "path", s.path)
	}

	items, err := s.normalizer.BinaryList(data)
	if err != nil {
		return nil, errors.Join(domain.ErrRecordCorrupt, zerr.With(err, "path", s.path))
	}
	if items == nil {
		items = []domain.BinaryItem{}
	}
	return items, nil
}

// Save atomically replaces the record with items.
func (s *Store) Save(items []domain.BinaryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(items)
}

func (s *Store) write(items []domain.BinaryItem) error {
	data, err := config.EncodeBinaryList(items)
	if err != nil {
		return err
	}
	if err := bowfs.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write installed record")
	}
	return nil
}

// DefaultPath returns the per-user record location:
// $XDG_STATE_HOME/bow/binaries.yaml, or ~/.local/state/bow/binaries.yaml.
func DefaultPath() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// DefaultStateDir returns the per-user state directory for bow.
func DefaultStateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "bow"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Join(domain.ErrHomeUnresolved, zerr.Wrap(err, "cannot locate state directory"))
	}
	return filepath.Join(home, ".local", "state", "bow"), nil
}
