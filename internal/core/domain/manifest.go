package domain

// Manifest is the parsed package configuration document.
// A nil section means the provider is not configured.
type Manifest struct {
	Flatpak *FlatpakSection
	Binary  *BinarySection
}

// FlatpakSection holds the desired app-store packages.
type FlatpakSection struct {
	DefaultScope Scope
	Remote       string
	Present      []AppItem
}

// BinarySection holds the desired standalone binaries.
type BinarySection struct {
	InstallFolder string
	Packages      []BinaryItem
}

// DefaultRemote is the app-store remote used when a section does not name one.
const DefaultRemote = "flathub"

// EnsureOptions controls a reconcile run.
type EnsureOptions struct {
	// AssumeYes answers every confirmation with yes.
	AssumeYes bool
	// DryRun computes and renders the changes without applying them.
	DryRun bool
}

// Action names a reconcile pass.
type Action string

const (
	// ActionInstall adds missing packages.
	ActionInstall Action = "install"
	// ActionRemove removes packages that are no longer desired.
	ActionRemove Action = "remove"
)
