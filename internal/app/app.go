// Package app implements the application layer for bow.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/NoSpawnn/bow/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/records" //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       ports.CommandRunner
	downloader   ports.Downloader
	verifier     ports.Verifier
	confirmer    ports.Confirmer
	renderer     ports.Renderer
	telemetry    ports.Telemetry
	logger       ports.Logger
	newStore     func(path string) ports.RecordStore
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.CommandRunner,
	downloader ports.Downloader,
	verifier ports.Verifier,
	confirmer ports.Confirmer,
	renderer ports.Renderer,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		downloader:   downloader,
		verifier:     verifier,
		confirmer:    confirmer,
		renderer:     renderer,
		telemetry:    telemetry,
		logger:       log,
		newStore: func(path string) ports.RecordStore {
			return records.NewStore(path)
		},
	}
}

// WithRecordStore replaces the sidecar record store constructor.
// This is primarily used for testing.
func (a *App) WithRecordStore(newStore func(path string) ports.RecordStore) *App {
	a.newStore = newStore
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	ConfigPath      string
	RecordPath      string
	LockPath        string
	AssumeYes       bool
	DryRun          bool
	FailFast        bool
	CommandTimeout  time.Duration
	DownloadTimeout time.Duration
}

// Run reconciles every configured provider, in order, against the
// configuration document at opts.ConfigPath.
func (a *App) Run(ctx context.Context, opts RunOptions) (err error) {
	// 1. Take the run lock
	lock, err := fs.AcquireLock(opts.LockPath)
	if err != nil {
		return zerr.Wrap(err, "another bow run is in progress")
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
	}()

	// 2. Load the configuration
	manifest, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	// 3. Build the providers
	providers := a.packages(manifest, opts).Providers()
	if len(providers) == 0 {
		a.logger.Warn("no package providers configured in " + opts.ConfigPath)
		return nil
	}

	// 4. Reconcile
	ensureOpts := domain.EnsureOptions{AssumeYes: opts.AssumeYes, DryRun: opts.DryRun}
	var errs []error
	for _, p := range providers {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		ensureErr := p.Ensure(ctx, ensureOpts)
		if s, ok := p.(interface{ Summary() string }); ok {
			a.logger.Info(s.Summary())
		}
		if ensureErr != nil {
			a.logger.Error(ensureErr)
			errs = append(errs, ensureErr)
			if opts.FailFast {
				break
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(domain.ErrEnsureFailed, errors.Join(errs...))
	}
	return nil
}

// Close flushes the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}
