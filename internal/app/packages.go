package app

import (
	"github.com/NoSpawnn/bow/internal/adapters/binary"  //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/flatpak" //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/NoSpawnn/bow/internal/engine/reconciler"
)

const (
	// FlatpakProvider names the app-store provider.
	FlatpakProvider = "flatpak"
	// BinaryProvider names the standalone binary provider.
	BinaryProvider = "binary"
)

// PackagesConfig holds one reconciler per configured provider kind.
// A nil field means the provider is not configured.
type PackagesConfig struct {
	Flatpak *reconciler.Reconciler[domain.AppItem]
	Binary  *reconciler.Reconciler[domain.BinaryItem]
}

// Providers returns the configured providers in reconcile order.
func (p PackagesConfig) Providers() []ports.Provider {
	var out []ports.Provider
	if p.Flatpak != nil {
		out = append(out, p.Flatpak)
	}
	if p.Binary != nil {
		out = append(out, p.Binary)
	}
	return out
}

func (a *App) packages(m *domain.Manifest, opts RunOptions) PackagesConfig {
	var cfg PackagesConfig

	if m.Flatpak != nil {
		log := logger.WithPrefix(a.logger, FlatpakProvider)
		remote := m.Flatpak.Remote
		if remote == "" {
			remote = domain.DefaultRemote
		}
		backend := flatpak.New(withCommandTimeout(a.runner, opts.CommandTimeout), log, remote)
		cfg.Flatpak = reconciler.New[domain.AppItem](
			FlatpakProvider, m.Flatpak.Present, backend, a.confirmer, a.renderer, log, a.telemetry)
	}

	if m.Binary != nil {
		log := logger.WithPrefix(a.logger, BinaryProvider)
		backend := binary.New(
			withDownloadTimeout(a.downloader, opts.DownloadTimeout),
			a.verifier,
			a.newStore(opts.RecordPath),
			log,
			m.Binary.InstallFolder,
		)
		cfg.Binary = reconciler.New[domain.BinaryItem](
			BinaryProvider, m.Binary.Packages, backend, a.confirmer, a.renderer, log, a.telemetry)
	}

	return cfg
}
