package ports

import "github.com/NoSpawnn/bow/internal/core/domain"

// ConfigLoader defines the interface for loading the package configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and normalizes the configuration document at path.
	Load(path string) (*domain.Manifest, error)
}
