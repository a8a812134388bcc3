package domain

import "strings"

// Item is a package entry that can be compared by identity.
// Two items describe the same package when their keys are equal,
// regardless of any other field.
type Item interface {
	Key() string
}

// Scope selects where an app-store package is installed.
type Scope string

const (
	// ScopeUser installs into the per-user installation.
	ScopeUser Scope = "user"
	// ScopeSystem installs into the system-wide installation.
	ScopeSystem Scope = "system"
)

// DefaultScope is used when neither the entry nor its section name a scope.
const DefaultScope = ScopeUser

// ParseScope converts a configuration value into a Scope.
func ParseScope(s string) (Scope, bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeUser:
		return ScopeUser, true
	case ScopeSystem:
		return ScopeSystem, true
	default:
		return "", false
	}
}

// Flag returns the command line flag selecting this scope.
func (s Scope) Flag() string {
	return "--" + string(s)
}

// AppItem is an app-store package identified by its application ID.
type AppItem struct {
	ID    string
	Scope Scope
}

// Key returns the application ID.
func (a AppItem) Key() string { return a.ID }

// BinaryItem is a standalone executable fetched from a URL.
//
// URL, Sum and InstallPath are fully resolved: any version placeholder
// and $HOME reference has already been substituted.
type BinaryItem struct {
	Name        string
	URL         string
	Version     string
	Sum         string
	InstallPath string
}

// Key returns the binary name.
func (b BinaryItem) Key() string { return b.Name }

// Keys returns the identities of items in order.
func Keys[T Item](items []T) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}
	return keys
}
