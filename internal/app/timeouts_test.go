package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/NoSpawnn/bow/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWithCommandTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockCommandRunner(ctrl)

	assert.Same(t, next, withCommandTimeout(next, 0))

	r := withCommandTimeout(next, time.Minute)
	next.EXPECT().Output(gomock.Any(), "flatpak", "list").
		DoAndReturn(func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
			return nil, nil
		})
	next.EXPECT().Stream(gomock.Any(), gomock.Any(), "flatpak", "install").
		DoAndReturn(func(ctx context.Context, _ ports.Logger, _ string, _ ...string) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})

	_, err := r.Output(context.Background(), "flatpak", "list")
	assert.NoError(t, err)
	assert.NoError(t, r.Stream(context.Background(), mocks.NewMockLogger(ctrl), "flatpak", "install"))
}

func TestWithDownloadTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockDownloader(ctrl)

	d := withDownloadTimeout(next, time.Second)
	next.EXPECT().Fetch(gomock.Any(), "https://example.com", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ io.Writer) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})

	assert.NoError(t, d.Fetch(context.Background(), "https://example.com", io.Discard))
}
