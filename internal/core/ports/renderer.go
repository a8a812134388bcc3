package ports

import "github.com/NoSpawnn/bow/internal/core/domain"

// Renderer presents pending changes to the user.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// RenderPlan shows the packages a provider is about to install or remove.
	RenderPlan(provider string, action domain.Action, keys []string)
}
