package binary_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/NoSpawnn/bow/internal/adapters/binary"
	"github.com/NoSpawnn/bow/internal/adapters/fs"
	"github.com/NoSpawnn/bow/internal/adapters/records"
	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	adapter    *binary.Adapter
	downloader *mocks.MockDownloader
	store      *records.Store
	binDir     string
	staging    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	f := &fixture{
		downloader: mocks.NewMockDownloader(ctrl),
		store:      records.NewStore(filepath.Join(root, "state", records.FileName)),
		binDir:     filepath.Join(root, "bin"),
		staging:    filepath.Join(root, "staging"),
	}
	require.NoError(t, os.MkdirAll(f.staging, 0o750))

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	f.adapter = binary.New(f.downloader, fs.NewVerifier(), f.store, log, f.binDir, binary.WithStagingRoot(f.staging))
	return f
}

func serve(body string) func(context.Context, string, io.Writer) error {
	return func(_ context.Context, _ string, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	}
}

func sumOf(body string) string {
	h := sha256.Sum256([]byte(body))
	return hex.EncodeToString(h[:])
}

func TestAdapter_Installed_BootstrapsRecord(t *testing.T) {
	f := newFixture(t)

	items, err := f.adapter.Installed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.FileExists(t, f.store.Path())
}

func TestAdapter_Install(t *testing.T) {
	f := newFixture(t)
	item := domain.BinaryItem{Name: "tool", URL: "https://example.com/tool", Sum: sumOf("#!/bin/sh\n")}

	f.downloader.EXPECT().Fetch(gomock.Any(), item.URL, gomock.Any()).DoAndReturn(serve("#!/bin/sh\n"))

	require.NoError(t, f.adapter.Install(context.Background(), []domain.BinaryItem{item}))

	target := filepath.Join(f.binDir, "tool")
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, binary.ExecutableMode, info.Mode().Perm())

	recorded, err := f.adapter.Installed(context.Background())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "tool", recorded[0].Name)
	assert.Equal(t, target, recorded[0].InstallPath)

	staged, err := os.ReadDir(f.staging)
	require.NoError(t, err)
	assert.Empty(t, staged, "staging directory is cleaned up")
}

func TestAdapter_Install_ExplicitInstallPath(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(t.TempDir(), "custom", "name")
	item := domain.BinaryItem{Name: "tool", URL: "https://example.com/tool", InstallPath: target}

	f.downloader.EXPECT().Fetch(gomock.Any(), item.URL, gomock.Any()).DoAndReturn(serve("data"))

	require.NoError(t, f.adapter.Install(context.Background(), []domain.BinaryItem{item}))
	assert.FileExists(t, target)
	assert.NoFileExists(t, filepath.Join(f.binDir, "tool"))
}

func TestAdapter_Install_ChecksumMismatch(t *testing.T) {
	f := newFixture(t)
	item := domain.BinaryItem{Name: "tool", URL: "https://example.com/tool", Sum: sumOf("expected")}

	f.downloader.EXPECT().Fetch(gomock.Any(), item.URL, gomock.Any()).DoAndReturn(serve("tampered"))

	err := f.adapter.Install(context.Background(), []domain.BinaryItem{item})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChecksumMismatch))

	assert.NoFileExists(t, filepath.Join(f.binDir, "tool"))
	staged, err := os.ReadDir(f.staging)
	require.NoError(t, err)
	assert.Empty(t, staged, "rejected download is removed")

	recorded, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestAdapter_Install_TransferFailureAbortsBatch(t *testing.T) {
	f := newFixture(t)
	first := domain.BinaryItem{Name: "a", URL: "https://example.com/a"}
	second := domain.BinaryItem{Name: "b", URL: "https://example.com/b"}
	third := domain.BinaryItem{Name: "c", URL: "https://example.com/c"}

	gomock.InOrder(
		f.downloader.EXPECT().Fetch(gomock.Any(), first.URL, gomock.Any()).DoAndReturn(serve("a")),
		f.downloader.EXPECT().Fetch(gomock.Any(), second.URL, gomock.Any()).Return(domain.ErrTransferFailed),
	)

	err := f.adapter.Install(context.Background(), []domain.BinaryItem{first, second, third})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransferFailed))

	assert.FileExists(t, filepath.Join(f.binDir, "a"), "completed items are not rolled back")
	assert.NoFileExists(t, filepath.Join(f.binDir, "c"))

	recorded, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, recorded, "the record only commits after the whole batch")
}

func TestAdapter_Install_ReplacesRecordedEntry(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save([]domain.BinaryItem{
		{Name: "keep", URL: "https://example.com/keep", InstallPath: "/opt/keep"},
		{Name: "tool", URL: "https://example.com/tool-1", InstallPath: "/opt/tool"},
	}))

	item := domain.BinaryItem{Name: "tool", URL: "https://example.com/tool-2", Version: "2"}
	f.downloader.EXPECT().Fetch(gomock.Any(), item.URL, gomock.Any()).DoAndReturn(serve("v2"))

	require.NoError(t, f.adapter.Install(context.Background(), []domain.BinaryItem{item}))

	recorded, err := f.store.Load()
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, "keep", recorded[0].Name)
	assert.Equal(t, "https://example.com/tool-2", recorded[1].URL)
}

func TestAdapter_Remove(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.binDir, "tool")
	require.NoError(t, os.MkdirAll(f.binDir, 0o750))
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	require.NoError(t, f.store.Save([]domain.BinaryItem{
		{Name: "tool", URL: "https://example.com/tool", InstallPath: target},
		{Name: "other", URL: "https://example.com/other", InstallPath: filepath.Join(f.binDir, "other")},
	}))

	err := f.adapter.Remove(context.Background(), []domain.BinaryItem{{Name: "tool"}})
	require.NoError(t, err)

	assert.NoFileExists(t, target)
	recorded, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, domain.Keys(recorded))
}

func TestAdapter_Remove_AlreadyMissing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save([]domain.BinaryItem{
		{Name: "ghost", URL: "https://example.com/ghost", InstallPath: filepath.Join(f.binDir, "ghost")},
	}))

	require.NoError(t, f.adapter.Remove(context.Background(), []domain.BinaryItem{{Name: "ghost"}}))

	recorded, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestAdapter_EmptyBatches(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.adapter.Install(context.Background(), nil))
	require.NoError(t, f.adapter.Remove(context.Background(), nil))
	assert.NoFileExists(t, f.store.Path())
}
