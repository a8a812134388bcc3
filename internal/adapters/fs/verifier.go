package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Verifier checks files against SHA-256 sums.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyChecksum compares the SHA-256 digest of the file at path with sum.
// The sum is hex encoded, compared case-insensitively and may carry a
// "sha256:" prefix. An empty sum is accepted without reading the file.
func (v *Verifier) VerifyChecksum(path, sum string) error {
	want := strings.TrimPrefix(strings.TrimSpace(sum), "sha256:")
	if want == "" {
		return nil
	}

	got, err := FileSHA256(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, want) {
		err := zerr.With(zerr.With(zerr.New("sha256 differs"), "expected", want), "actual", got)
		return errors.Join(domain.ErrChecksumMismatch, zerr.With(err, "path", path))
	}
	return nil
}

// FileSHA256 returns the lowercase hex SHA-256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
