// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder that renders as text once SetOutput is called.
func New() *Recorder {
	return NewRecorder(NewTextWriter(nil))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex named after the unit of work.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	rec := r.rec.Vertex(digest.FromString("bow/ensure/"+name), name)
	return ctx, &Vertex{rec: rec}
}

// SetOutput points the recorder's writer at out, when the writer supports it.
func (r *Recorder) SetOutput(out io.Writer) {
	if s, ok := r.w.(interface{ SetOutput(io.Writer) }); ok {
		s.SetOutput(out)
	}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
