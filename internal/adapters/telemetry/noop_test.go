package telemetry_test

import (
	"context"
	"testing"

	"github.com/NoSpawnn/bow/internal/adapters/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOp(t *testing.T) {
	tel := telemetry.NewNoOp()
	ctx := context.Background()

	got, vertex := tel.Record(ctx, "ensure flatpak")
	assert.Equal(t, ctx, got)

	n, err := vertex.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	vertex.Cached()
	vertex.Complete(nil)
	assert.NoError(t, tel.Close())
}
