// Package binary implements the backend for standalone downloaded executables.
package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NoSpawnn/bow/internal/adapters/fs"
	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ExecutableMode is applied to every installed binary.
const ExecutableMode os.FileMode = 0o755

// Adapter implements ports.Backend[domain.BinaryItem].
//
// The installed set is the record in store, not a scan of the filesystem,
// so only binaries bow installed are ever removed.
type Adapter struct {
	downloader    ports.Downloader
	verifier      ports.Verifier
	store         ports.RecordStore
	logger        ports.Logger
	installFolder string
	stagingRoot   string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithStagingRoot sets the parent directory for per-batch staging directories.
// The default is the system temporary directory.
func WithStagingRoot(dir string) Option {
	return func(a *Adapter) { a.stagingRoot = dir }
}

// New creates an Adapter. installFolder is used for items without an install path.
func New(
	downloader ports.Downloader,
	verifier ports.Verifier,
	store ports.RecordStore,
	log ports.Logger,
	installFolder string,
	opts ...Option,
) *Adapter {
	a := &Adapter{
		downloader:    downloader,
		verifier:      verifier,
		store:         store,
		logger:        log,
		installFolder: installFolder,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Installed returns the recorded binaries.
func (a *Adapter) Installed(_ context.Context) ([]domain.BinaryItem, error) {
	items, err := a.store.Load()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load installed binaries")
	}
	return items, nil
}

// Install downloads, verifies and installs each item in order.
// The record is updated once, after every item succeeded.
func (a *Adapter) Install(ctx context.Context, items []domain.BinaryItem) error {
	if len(items) == 0 {
		return nil
	}

	current, err := a.store.Load()
	if err != nil {
		return zerr.Wrap(err, "failed to load installed binaries")
	}

	staging, err := os.MkdirTemp(a.stagingRoot, "bow-staging-")
	if err != nil {
		return zerr.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(staging) //nolint:errcheck // best effort cleanup

	batch := make([]domain.BinaryItem, 0, len(items))
	for _, item := range items {
		installed, err := a.installOne(ctx, staging, item)
		if err != nil {
			return zerr.With(err, "item", item.Name)
		}
		batch = append(batch, installed)
	}

	if err := a.store.Save(merge(current, batch)); err != nil {
		return zerr.Wrap(err, "failed to record installed binaries")
	}
	return nil
}

// Remove deletes each recorded binary and drops it from the record.
func (a *Adapter) Remove(_ context.Context, items []domain.BinaryItem) error {
	if len(items) == 0 {
		return nil
	}

	current, err := a.store.Load()
	if err != nil {
		return zerr.Wrap(err, "failed to load installed binaries")
	}
	paths := make(map[string]string, len(current))
	for _, rec := range current {
		paths[rec.Name] = rec.InstallPath
	}

	removed := make(map[string]struct{}, len(items))
	for _, item := range items {
		target := paths[item.Name]
		if target == "" {
			target = item.InstallPath
		}
		if target == "" {
			target = a.resolvePath(item)
		}

		a.logger.Info("removing " + item.Name)
		if err := os.Remove(target); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return zerr.With(zerr.With(zerr.Wrap(err, "failed to remove binary"), "item", item.Name), "path", target)
			}
			a.logger.Warn(fmt.Sprintf("%s was already missing at %s", item.Name, target))
		}
		removed[item.Name] = struct{}{}
	}

	kept := make([]domain.BinaryItem, 0, len(current))
	for _, rec := range current {
		if _, ok := removed[rec.Name]; !ok {
			kept = append(kept, rec)
		}
	}
	if err := a.store.Save(kept); err != nil {
		return zerr.Wrap(err, "failed to record removed binaries")
	}
	return nil
}

func (a *Adapter) installOne(ctx context.Context, staging string, item domain.BinaryItem) (domain.BinaryItem, error) {
	staged := filepath.Join(staging, fmt.Sprintf("%016x", xxhash.Sum64String(item.URL)))

	a.logger.Info("downloading " + item.Name + " from " + item.URL)
	if err := a.download(ctx, item.URL, staged); err != nil {
		_ = os.Remove(staged)
		return item, err
	}

	if err := a.verifier.VerifyChecksum(staged, item.Sum); err != nil {
		_ = os.Remove(staged)
		return item, err
	}

	item.InstallPath = a.resolvePath(item)
	if err := fs.CopyFileAtomic(staged, item.InstallPath, ExecutableMode); err != nil {
		return item, err
	}
	_ = os.Remove(staged)

	a.logger.Info("installed " + item.Name + " to " + item.InstallPath)
	return item, nil
}

func (a *Adapter) download(ctx context.Context, url, dst string) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // staging path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staging file"), "path", dst)
	}
	if err := a.downloader.Fetch(ctx, url, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close staging file"), "path", dst)
	}
	return nil
}

func (a *Adapter) resolvePath(item domain.BinaryItem) string {
	if item.InstallPath != "" {
		return item.InstallPath
	}
	return filepath.Join(a.installFolder, item.Name)
}

// merge returns current with batch applied; batch entries replace
// recorded entries of the same name.
func merge(current, batch []domain.BinaryItem) []domain.BinaryItem {
	replaced := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		replaced[item.Name] = struct{}{}
	}
	out := make([]domain.BinaryItem, 0, len(current)+len(batch))
	for _, rec := range current {
		if _, ok := replaced[rec.Name]; !ok {
			out = append(out, rec)
		}
	}
	return append(out, batch...)
}
