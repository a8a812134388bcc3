package fetch

import (
	"context"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the downloader Graft node.
const NodeID graft.ID = "adapter.downloader"

func init() {
	graft.Register(graft.Node[ports.Downloader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Downloader, error) {
			return NewClient(), nil
		},
	})
}
