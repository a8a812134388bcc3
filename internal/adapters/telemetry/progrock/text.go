package progrock

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// TextWriter is a progrock.Writer that prints vertex logs and completions
// as plain lines. Output goes nowhere until SetOutput is called.
type TextWriter struct {
	mu    sync.Mutex
	out   io.Writer
	names map[string]string
	done  map[string]bool
}

// NewTextWriter creates a TextWriter printing to out. A nil out discards.
func NewTextWriter(out io.Writer) *TextWriter {
	if out == nil {
		out = io.Discard
	}
	return &TextWriter{
		out:   out,
		names: make(map[string]string),
		done:  make(map[string]bool),
	}
}

// SetOutput redirects subsequent output.
func (t *TextWriter) SetOutput(out io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if out == nil {
		out = io.Discard
	}
	t.out = out
}

// WriteStatus prints the log lines and completed vertexes of one update.
func (t *TextWriter) WriteStatus(update *progrock.StatusUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, v := range update.GetVertexes() {
		t.names[v.GetId()] = v.GetName()
	}

	for _, l := range update.GetLogs() {
		name := t.names[l.GetVertex()]
		scanner := bufio.NewScanner(bytes.NewReader(l.GetData()))
		for scanner.Scan() {
			if _, err := fmt.Fprintf(t.out, "%s | %s\n", name, scanner.Text()); err != nil {
				return err
			}
		}
	}

	for _, v := range update.GetVertexes() {
		if v.GetCompleted() == nil || t.done[v.GetId()] {
			continue
		}
		t.done[v.GetId()] = true
		if err := t.complete(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextWriter) complete(v *progrock.Vertex) error {
	var err error
	switch {
	case v.GetError() != "":
		_, err = fmt.Fprintf(t.out, "✗ %s: %s\n", v.GetName(), v.GetError())
	case v.GetCached():
		_, err = fmt.Fprintf(t.out, "= %s (up to date)\n", v.GetName())
	default:
		_, err = fmt.Fprintf(t.out, "✓ %s\n", v.GetName())
	}
	return err
}

// Close implements progrock.Writer.
func (t *TextWriter) Close() error {
	return nil
}
