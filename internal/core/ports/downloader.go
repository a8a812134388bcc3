package ports

import (
	"context"
	"io"
)

// Downloader fetches remote resources.
//
//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Fetch writes the body found at url to w.
	// Any non-success status is an error.
	Fetch(ctx context.Context, url string, w io.Writer) error
}
