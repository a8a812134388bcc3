// Package telemetry holds telemetry adapters that need no backing service.
package telemetry

import (
	"context"
	"io"

	"github.com/NoSpawnn/bow/internal/core/ports"
)

// NoOp is a ports.Telemetry that records nothing.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns ctx unchanged and a vertex that discards everything.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noOpVertex{}
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

type noOpVertex struct{}

func (noOpVertex) Stdout() io.Writer { return io.Discard }

func (noOpVertex) Stderr() io.Writer { return io.Discard }

func (noOpVertex) Complete(error) {}

func (noOpVertex) Cached() {}
