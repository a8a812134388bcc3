package app

import (
	"context"

	"github.com/NoSpawnn/bow/internal/adapters/config"            //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/fetch"             //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/fs"                //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/logger"            //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/prompt"            //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/render"            //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/shell"             //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			fetch.NodeID,
			fs.VerifierNodeID,
			prompt.NodeID,
			render.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log, Telemetry: telemetry}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	downloader, err := graft.Dep[ports.Downloader](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	confirmer, err := graft.Dep[ports.Confirmer](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, runner, downloader, verifier, confirmer, renderer, telemetry, log), nil
}
