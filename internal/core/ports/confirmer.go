package ports

// Confirmer asks the user a yes/no question.
//
//go:generate go run go.uber.org/mock/mockgen -source=confirmer.go -destination=mocks/mock_confirmer.go -package=mocks
type Confirmer interface {
	// Confirm blocks until the user answers. Only an explicit yes returns true.
	Confirm(prompt string) bool
}
