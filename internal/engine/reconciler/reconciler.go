// Package reconciler converges a backend's installed set onto a desired set.
package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
)

// PassStatus represents the outcome of one reconcile pass.
type PassStatus string

const (
	// StatusPending indicates the pass has not run yet.
	StatusPending PassStatus = "Pending"
	// StatusUpToDate indicates there was nothing to change.
	StatusUpToDate PassStatus = "UpToDate"
	// StatusPlanned indicates the changes were shown but not applied (dry run).
	StatusPlanned PassStatus = "Planned"
	// StatusDeclined indicates the user did not confirm the changes.
	StatusDeclined PassStatus = "Declined"
	// StatusApplied indicates the changes were applied.
	StatusApplied PassStatus = "Applied"
	// StatusFailed indicates the backend failed to apply the changes.
	StatusFailed PassStatus = "Failed"
)

// Reconciler implements ports.Provider for a single backend.
type Reconciler[T domain.Item] struct {
	name      string
	desired   []T
	backend   ports.Backend[T]
	confirmer ports.Confirmer
	renderer  ports.Renderer
	log       ports.Logger
	telemetry ports.Telemetry

	mu     sync.RWMutex
	status map[domain.Action]PassStatus
}

// New creates a Reconciler that drives backend towards desired.
// log is expected to be provider-prefixed already.
func New[T domain.Item](
	name string,
	desired []T,
	backend ports.Backend[T],
	confirmer ports.Confirmer,
	renderer ports.Renderer,
	log ports.Logger,
	telemetry ports.Telemetry,
) *Reconciler[T] {
	return &Reconciler[T]{
		name:      name,
		desired:   desired,
		backend:   backend,
		confirmer: confirmer,
		renderer:  renderer,
		log:       log,
		telemetry: telemetry,
		status: map[domain.Action]PassStatus{
			domain.ActionInstall: StatusPending,
			domain.ActionRemove:  StatusPending,
		},
	}
}

// Name returns the provider name.
func (r *Reconciler[T]) Name() string {
	return r.name
}

// Status reports the outcome of the given pass of the last Ensure call.
func (r *Reconciler[T]) Status(action domain.Action) PassStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status[action]
}

// Summary describes both passes of the last Ensure call in one line.
func (r *Reconciler[T]) Summary() string {
	return fmt.Sprintf("%s: install %s, remove %s",
		r.name, r.Status(domain.ActionInstall), r.Status(domain.ActionRemove))
}

func (r *Reconciler[T]) setStatus(action domain.Action, status PassStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[action] = status
}

// Ensure runs one diff, confirm and apply cycle.
// The install pass always completes, or is skipped, before removal begins.
func (r *Reconciler[T]) Ensure(ctx context.Context, opts domain.EnsureOptions) (err error) {
	r.setStatus(domain.ActionInstall, StatusPending)
	r.setStatus(domain.ActionRemove, StatusPending)

	ctx, vtx := r.telemetry.Record(ctx, r.name)
	defer func() { vtx.Complete(err) }()

	installed, err := r.backend.Installed(ctx)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to query installed packages"), "provider", r.name)
	}

	r.log.Debug(fmt.Sprintf("%s currently installed, %d desired", countPackages(len(installed)), len(r.desired)))

	toInstall, needInstall := domain.Difference(r.desired, installed)
	toRemove, needRemove := domain.Difference(installed, r.desired)
	if !needInstall && !needRemove {
		vtx.Cached()
	}

	if err := r.pass(ctx, vtx, domain.ActionInstall, toInstall, needInstall, opts, r.backend.Install); err != nil {
		return err
	}
	return r.pass(ctx, vtx, domain.ActionRemove, toRemove, needRemove, opts, r.backend.Remove)
}

func (r *Reconciler[T]) pass(
	ctx context.Context,
	vtx ports.Vertex,
	action domain.Action,
	items []T,
	pending bool,
	opts domain.EnsureOptions,
	apply func(context.Context, []T) error,
) error {
	if !pending {
		r.log.Info(fmt.Sprintf("nothing to %s", action))
		r.setStatus(action, StatusUpToDate)
		return nil
	}

	r.renderer.RenderPlan(r.name, action, domain.Keys(items))

	if opts.DryRun {
		r.log.Info(fmt.Sprintf("dry run: would %s %s", action, countPackages(len(items))))
		r.setStatus(action, StatusPlanned)
		return nil
	}

	if opts.AssumeYes {
		r.log.Info(fmt.Sprintf("assuming yes to %s %s", action, countPackages(len(items))))
	} else if !r.confirmer.Confirm(fmt.Sprintf("%s %s with %s?", action, countPackages(len(items)), r.name)) {
		r.log.Info(fmt.Sprintf("skipping %s", action))
		r.setStatus(action, StatusDeclined)
		return nil
	}

	_, _ = fmt.Fprintf(vtx.Stdout(), "%s %v\n", action, domain.Keys(items))

	if err := apply(ctx, items); err != nil {
		r.setStatus(action, StatusFailed)
		wrapped := zerr.Wrap(err, fmt.Sprintf("failed to %s packages", action))
		return zerr.With(zerr.With(wrapped, "provider", r.name), "action", string(action))
	}

	r.log.Info(fmt.Sprintf("%s complete: %s", action, countPackages(len(items))))
	r.setStatus(action, StatusApplied)
	return nil
}

func countPackages(n int) string {
	if n == 1 {
		return "1 package"
	}
	return fmt.Sprintf("%d packages", n)
}
