package app

import (
	"context"
	"io"
	"time"

	"github.com/NoSpawnn/bow/internal/core/ports"
)

// timeoutRunner bounds every command with its own deadline.
type timeoutRunner struct {
	next    ports.CommandRunner
	timeout time.Duration
}

func withCommandTimeout(next ports.CommandRunner, timeout time.Duration) ports.CommandRunner {
	if timeout <= 0 {
		return next
	}
	return &timeoutRunner{next: next, timeout: timeout}
}

func (r *timeoutRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Output(ctx, name, args...)
}

func (r *timeoutRunner) Stream(ctx context.Context, log ports.Logger, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Stream(ctx, log, name, args...)
}

// timeoutDownloader bounds every transfer with its own deadline.
type timeoutDownloader struct {
	next    ports.Downloader
	timeout time.Duration
}

func withDownloadTimeout(next ports.Downloader, timeout time.Duration) ports.Downloader {
	if timeout <= 0 {
		return next
	}
	return &timeoutDownloader{next: next, timeout: timeout}
}

func (d *timeoutDownloader) Fetch(ctx context.Context, url string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.next.Fetch(ctx, url, w)
}
