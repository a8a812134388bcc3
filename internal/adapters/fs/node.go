package fs

import (
	"context"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/grindlemire/graft"
)

// VerifierNodeID is the unique identifier for the checksum verifier Graft node.
const VerifierNodeID graft.ID = "adapter.fs.verifier"

func init() {
	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})
}
