package ports

// Verifier checks downloaded files against their declared checksum.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// VerifyChecksum returns domain.ErrChecksumMismatch if the file at path
	// does not hash to sum.
	VerifyChecksum(path, sum string) error
}
