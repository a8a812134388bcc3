// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/NoSpawnn/bow/internal/adapters/config"
	_ "github.com/NoSpawnn/bow/internal/adapters/fetch"
	_ "github.com/NoSpawnn/bow/internal/adapters/fs"
	_ "github.com/NoSpawnn/bow/internal/adapters/logger"
	_ "github.com/NoSpawnn/bow/internal/adapters/prompt"
	_ "github.com/NoSpawnn/bow/internal/adapters/render"
	_ "github.com/NoSpawnn/bow/internal/adapters/shell"
	_ "github.com/NoSpawnn/bow/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "github.com/NoSpawnn/bow/internal/app"
)
