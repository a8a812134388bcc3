package progrock

import (
	"io"

	"github.com/vito/progrock"
)

// Vertex implements ports.Vertex for one provider's ensure run.
type Vertex struct {
	rec    *progrock.VertexRecorder
	cached bool
}

// Stdout returns the vertex's progress stream.
func (v *Vertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Stderr returns the vertex's error stream.
func (v *Vertex) Stderr() io.Writer {
	return v.rec.Stderr()
}

// Complete finishes the vertex.
func (v *Vertex) Complete(err error) {
	v.rec.Done(err)
}

// Cached marks the vertex as up to date. Repeated calls are ignored.
func (v *Vertex) Cached() {
	if v.cached {
		return
	}
	v.cached = true
	v.rec.Cached()
}
