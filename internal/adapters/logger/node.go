package logger

import (
	"context"
	"os"

	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// LevelEnv selects the initial log level; --verbose may lower it later.
const LevelEnv = "BOW_LOG_LEVEL"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return NewWithLevel(os.Stderr, ParseLevel(os.Getenv(LevelEnv))), nil
		},
	})
}
