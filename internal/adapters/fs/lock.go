package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Lock is an exclusive lock file held for the duration of a run.
type Lock struct {
	path string
}

// AcquireLock creates the lock file at path.
// It fails with domain.ErrLocked if the file already exists.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // path from settings
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, errors.Join(domain.ErrLocked, zerr.With(zerr.New("lock file exists"), "path", path))
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to create lock file"), "path", path)
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	_ = f.Close()

	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove lock file"), "path", l.path)
	}
	return nil
}
