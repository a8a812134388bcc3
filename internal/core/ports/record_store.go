package ports

import "github.com/NoSpawnn/bow/internal/core/domain"

// RecordStore persists the set of binaries bow has installed.
//
//go:generate go run go.uber.org/mock/mockgen -source=record_store.go -destination=mocks/mock_record_store.go -package=mocks
type RecordStore interface {
	// Load returns the recorded binaries.
	// A missing record is created empty.
	Load() ([]domain.BinaryItem, error)

	// Save replaces the record. The write is atomic: readers observe
	// either the previous or the new record, never a partial one.
	Save(items []domain.BinaryItem) error
}
