package config

// Recognized keys of the configuration document.
const (
	keyPackages = "packages"
	keyFlatpak  = "flatpak"
	keyBinary   = "binary"

	keyDefaultScope  = "default_scope"
	keyRemote        = "remote"
	keyPresent       = "present"
	keyID            = "id"
	keyScope         = "scope"
	keyInstallFolder = "install_folder"
	keyName          = "name"
	keyURL           = "url"
	keyVersion       = "version"
	keySum           = "sum"
	keyInstallPath   = "install_path"
)

// VersionToken is replaced by an entry's version in its url, install_path and sum.
const VersionToken = "{{ version }}"

// DefaultInstallFolder is used when the binary section does not name one.
const DefaultInstallFolder = "$HOME/.local/bin"

var (
	documentFields      = fieldSet(keyPackages)
	packagesFields      = fieldSet(keyFlatpak, keyBinary)
	flatpakFields       = fieldSet(keyDefaultScope, keyRemote, keyPresent)
	flatpakEntryFields  = fieldSet(keyID, keyScope)
	binaryFields        = fieldSet(keyInstallFolder, keyPackages)
	binaryEntryFields   = fieldSet(keyName, keyURL, keyVersion, keySum, keyInstallPath)
	binaryEntryRequired = []string{keyName, keyURL}
)

func fieldSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// BinaryRecord is the serialized form of an installed binary.
// It uses the same field names as a binary entry in the configuration.
type BinaryRecord struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Version     string `yaml:"version,omitempty"`
	Sum         string `yaml:"sum,omitempty"`
	InstallPath string `yaml:"install_path,omitempty"`
}
