package config

import (
	"os"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader by reading a YAML file.
type Loader struct {
	normalizer *Normalizer
}

// NewLoader creates a Loader that reports warnings to log.
func NewLoader(log ports.Logger, opts ...Option) *Loader {
	opts = append([]Option{WithLogger(log)}, opts...)
	return &Loader{normalizer: NewNormalizer(opts...)}
}

// Load reads and normalizes the configuration document at path.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	manifest, err := l.normalizer.Document(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}
	return manifest, nil
}

// EncodeBinaryList serializes items as a sequence of binary entries.
// The output is accepted by Normalizer.BinaryList.
func EncodeBinaryList(items []domain.BinaryItem) ([]byte, error) {
	records := make([]BinaryRecord, len(items))
	for i, item := range items {
		records[i] = BinaryRecord{
			Name:        item.Name,
			URL:         item.URL,
			Version:     item.Version,
			Sum:         item.Sum,
			InstallPath: item.InstallPath,
		}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode binary records")
	}
	return data, nil
}
