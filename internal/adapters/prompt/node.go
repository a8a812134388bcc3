package prompt

import (
	"context"
	"os"

	"github.com/NoSpawnn/bow/internal/adapters/logger"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the confirmer Graft node.
const NodeID graft.ID = "adapter.confirmer"

func init() {
	graft.Register(graft.Node[ports.Confirmer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Confirmer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(os.Stdin, os.Stderr, log), nil
		},
	})
}
