// Package fetch downloads remote resources over HTTP.
package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/NoSpawnn/bow/internal/build"
	"github.com/NoSpawnn/bow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Client implements ports.Downloader using net/http.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client with no overall timeout.
// Callers bound transfers through the request context.
func NewClient() *Client {
	return NewClientWithTimeout(0)
}

// NewClientWithTimeout creates a Client whose requests fail after timeout.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "bow/" + build.Version,
	}
}

// Fetch streams the body found at url into w.
// Any status outside 2xx is returned as domain.ErrTransferFailed.
func (c *Client) Fetch(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create request"), "url", url)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(domain.ErrTransferFailed, zerr.With(zerr.Wrap(err, "request failed"), "url", url))
	}
	defer resp.Body.Close() //nolint:errcheck // body is fully consumed or abandoned

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := zerr.With(zerr.With(zerr.New("unexpected status"), "status", resp.StatusCode), "url", url)
		return errors.Join(domain.ErrTransferFailed, err)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Join(domain.ErrTransferFailed, zerr.With(zerr.Wrap(err, "failed to read body"), "url", url))
	}
	return nil
}
