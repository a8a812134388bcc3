package ports

import (
	"context"

	"github.com/NoSpawnn/bow/internal/core/domain"
)

// Backend is the capability set every package backend provides.
//
//go:generate go run go.uber.org/mock/mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend[T domain.Item] interface {
	// Installed queries the live state. It never caches and bootstraps
	// any missing backing store, returning an empty collection.
	Installed(ctx context.Context) ([]T, error)

	// Install makes exactly the given items present.
	// A failure aborts the remaining items and identifies the failing one.
	// Already-installed items are not rolled back.
	Install(ctx context.Context, items []T) error

	// Remove makes exactly the given items absent.
	Remove(ctx context.Context, items []T) error
}

// Provider reconciles one configured backend against its desired set.
type Provider interface {
	// Name identifies the provider in logs and reports.
	Name() string
	// Ensure runs one diff, confirm and apply cycle.
	Ensure(ctx context.Context, opts domain.EnsureOptions) error
}
