// Package config loads and normalizes the package configuration document.
package config

import (
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Normalizer converts the accepted configuration shapes into domain values.
//
// Every entry may be written as a bare scalar or as a mapping restricted to
// a fixed set of fields. Version placeholders and $HOME are resolved here,
// once, so domain items never carry unresolved values.
type Normalizer struct {
	homeDir func() (string, error)
	logger  ports.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithHomeDir overrides how the home directory is resolved.
func WithHomeDir(fn func() (string, error)) Option {
	return func(n *Normalizer) { n.homeDir = fn }
}

// WithLogger sets the logger used for non-fatal warnings.
func WithLogger(l ports.Logger) Option {
	return func(n *Normalizer) { n.logger = l }
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{homeDir: os.UserHomeDir}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Document normalizes a whole configuration document.
// An empty document yields a manifest with no providers.
func (n *Normalizer) Document(data []byte) (*domain.Manifest, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}
	manifest := &domain.Manifest{}
	if root == nil || isNull(root) {
		return manifest, nil
	}

	fields, err := topLevel(root)
	if err != nil {
		return nil, err
	}
	pkgs, ok := fields[keyPackages]
	if !ok || isNull(pkgs) {
		return manifest, nil
	}

	sections, err := mapping(pkgs, keyPackages, packagesFields)
	if err != nil {
		return nil, err
	}

	if node, ok := sections[keyFlatpak]; ok && !isNull(node) {
		section, err := n.flatpakSection(node)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid flatpak section"), "provider", keyFlatpak)
		}
		manifest.Flatpak = section
	}

	if node, ok := sections[keyBinary]; ok && !isNull(node) {
		section, err := n.binarySection(node)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid binary section"), "provider", keyBinary)
		}
		manifest.Binary = section
	}

	return manifest, nil
}

// BinaryList normalizes a sequence of binary entries, as found in the
// installed-binaries record. Entries without install_path keep it empty.
func (n *Normalizer) BinaryList(data []byte) ([]domain.BinaryItem, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}
	if root == nil || isNull(root) {
		return nil, nil
	}
	return n.binaryEntries(root, "")
}

// AppEntry normalizes a single app-store entry.
func (n *Normalizer) AppEntry(node *yaml.Node, defaultScope domain.Scope) (domain.AppItem, error) {
	node = resolve(node)
	if node != nil && node.Kind == yaml.ScalarNode && !isNull(node) {
		id := strings.TrimSpace(node.Value)
		if id == "" {
			return domain.AppItem{}, fieldError(domain.ErrMissingField, node, keyID)
		}
		return domain.AppItem{ID: id, Scope: defaultScope}, nil
	}

	fields, err := mapping(node, "flatpak entry", flatpakEntryFields)
	if err != nil {
		return domain.AppItem{}, err
	}

	id, err := requiredString(node, fields, keyID)
	if err != nil {
		return domain.AppItem{}, err
	}

	item := domain.AppItem{ID: id, Scope: defaultScope}
	if scopeNode, ok := fields[keyScope]; ok {
		scope, err := parseScope(scopeNode)
		if err != nil {
			return domain.AppItem{}, err
		}
		item.Scope = scope
	}
	return item, nil
}

// BinaryEntry normalizes a single binary entry. installFolder, when set,
// provides the install path for entries that do not declare one.
//
// A bare scalar is read as a URL; the name is the last segment of its path,
// without query or fragment.
func (n *Normalizer) BinaryEntry(node *yaml.Node, installFolder string) (domain.BinaryItem, error) {
	node = resolve(node)

	var raw BinaryRecord
	if node != nil && node.Kind == yaml.ScalarNode && !isNull(node) {
		raw.URL = strings.TrimSpace(node.Value)
		name, err := nameFromURL(raw.URL)
		if err != nil {
			return domain.BinaryItem{}, fieldError(domain.ErrMissingField, node, keyURL)
		}
		raw.Name = name
	} else {
		fields, err := mapping(node, "binary entry", binaryEntryFields)
		if err != nil {
			return domain.BinaryItem{}, err
		}
		for _, key := range binaryEntryRequired {
			if _, ok := fields[key]; !ok {
				return domain.BinaryItem{}, fieldError(domain.ErrMissingField, node, key)
			}
		}
		targets := []struct {
			key string
			dst *string
		}{
			{keyName, &raw.Name},
			{keyURL, &raw.URL},
			{keyVersion, &raw.Version},
			{keySum, &raw.Sum},
			{keyInstallPath, &raw.InstallPath},
		}
		for _, target := range targets {
			value, ok := fields[target.key]
			if !ok {
				continue
			}
			s, err := scalar(value, target.key)
			if err != nil {
				return domain.BinaryItem{}, err
			}
			*target.dst = s
		}
		if raw.Name == "" {
			return domain.BinaryItem{}, fieldError(domain.ErrMissingField, node, keyName)
		}
		if raw.URL == "" {
			return domain.BinaryItem{}, fieldError(domain.ErrMissingField, node, keyURL)
		}
	}

	if err := n.substituteVersion(node, &raw); err != nil {
		return domain.BinaryItem{}, err
	}

	installPath := raw.InstallPath
	if installPath == "" && installFolder != "" {
		installPath = filepath.Join(installFolder, raw.Name)
	}
	installPath, err := n.expandHome(installPath)
	if err != nil {
		return domain.BinaryItem{}, zerr.With(err, "binary", raw.Name)
	}

	return domain.BinaryItem{
		Name:        raw.Name,
		URL:         raw.URL,
		Version:     raw.Version,
		Sum:         raw.Sum,
		InstallPath: installPath,
	}, nil
}

func (n *Normalizer) flatpakSection(node *yaml.Node) (*domain.FlatpakSection, error) {
	section := &domain.FlatpakSection{DefaultScope: domain.DefaultScope, Remote: domain.DefaultRemote}

	node = resolve(node)
	present := node
	switch node.Kind {
	case yaml.SequenceNode:
	case yaml.MappingNode:
		fields, err := mapping(node, keyFlatpak, flatpakFields)
		if err != nil {
			return nil, err
		}
		if scopeNode, ok := fields[keyDefaultScope]; ok {
			scope, err := parseScope(scopeNode)
			if err != nil {
				return nil, err
			}
			section.DefaultScope = scope
		}
		if remoteNode, ok := fields[keyRemote]; ok {
			remote, err := scalar(remoteNode, keyRemote)
			if err != nil {
				return nil, err
			}
			if remote != "" {
				section.Remote = remote
			}
		}
		present = fields[keyPresent]
		if isNull(present) {
			return nil, fieldError(domain.ErrMissingField, node, keyPresent)
		}
	default:
		return nil, shapeError(node, keyFlatpak, "sequence or mapping")
	}

	entries, err := sequence(present, keyPresent)
	if err != nil {
		return nil, err
	}
	section.Present = make([]domain.AppItem, 0, len(entries))
	for _, entry := range entries {
		item, err := n.AppEntry(entry, section.DefaultScope)
		if err != nil {
			return nil, err
		}
		section.Present = append(section.Present, item)
	}
	return section, nil
}

func (n *Normalizer) binarySection(node *yaml.Node) (*domain.BinarySection, error) {
	section := &domain.BinarySection{InstallFolder: DefaultInstallFolder}

	node = resolve(node)
	entries := node
	switch node.Kind {
	case yaml.SequenceNode:
	case yaml.MappingNode:
		fields, err := mapping(node, keyBinary, binaryFields)
		if err != nil {
			return nil, err
		}
		if folderNode, ok := fields[keyInstallFolder]; ok {
			folder, err := scalar(folderNode, keyInstallFolder)
			if err != nil {
				return nil, err
			}
			if folder != "" {
				section.InstallFolder = folder
			}
		}
		entries = fields[keyPackages]
		if isNull(entries) {
			return nil, fieldError(domain.ErrMissingField, node, keyPackages)
		}
	default:
		return nil, shapeError(node, keyBinary, "sequence or mapping")
	}

	folder, err := n.expandHome(section.InstallFolder)
	if err != nil {
		return nil, err
	}
	section.InstallFolder = folder

	items, err := n.binaryEntries(entries, folder)
	if err != nil {
		return nil, err
	}
	section.Packages = items
	return section, nil
}

func (n *Normalizer) binaryEntries(node *yaml.Node, installFolder string) ([]domain.BinaryItem, error) {
	entries, err := sequence(node, keyPackages)
	if err != nil {
		return nil, err
	}
	items := make([]domain.BinaryItem, 0, len(entries))
	for _, entry := range entries {
		item, err := n.BinaryEntry(entry, installFolder)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// substituteVersion replaces VersionToken in url, install_path and sum.
func (n *Normalizer) substituteVersion(node *yaml.Node, raw *BinaryRecord) error {
	urlHas := strings.Contains(raw.URL, VersionToken)
	pathHas := strings.Contains(raw.InstallPath, VersionToken)
	sumHas := strings.Contains(raw.Sum, VersionToken)
	if !urlHas && !pathHas && !sumHas {
		return nil
	}

	if raw.Version == "" {
		return zerr.With(fieldError(domain.ErrMissingField, node, keyVersion), "binary", raw.Name)
	}

	if urlHas && raw.Sum != "" && !sumHas && n.logger != nil {
		n.logger.Warn("binary " + raw.Name + ": url references " + VersionToken +
			" but sum does not; the sum is used as written")
	}

	raw.URL = strings.ReplaceAll(raw.URL, VersionToken, raw.Version)
	raw.InstallPath = strings.ReplaceAll(raw.InstallPath, VersionToken, raw.Version)
	raw.Sum = strings.ReplaceAll(raw.Sum, VersionToken, raw.Version)
	return nil
}

// expandHome replaces $HOME and ${HOME} with the user's home directory.
func (n *Normalizer) expandHome(p string) (string, error) {
	if !strings.Contains(p, "$HOME") && !strings.Contains(p, "${HOME}") {
		return p, nil
	}
	home, err := n.homeDir()
	if err != nil || home == "" {
		if err == nil {
			err = zerr.New("empty home directory")
		}
		return "", errors.Join(zerr.With(zerr.Wrap(err, "cannot expand $HOME"), "path", p), domain.ErrHomeUnresolved)
	}
	p = strings.ReplaceAll(p, "${HOME}", home)
	return strings.ReplaceAll(p, "$HOME", home), nil
}

func nameFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if raw == "" || name == "." || name == "/" {
		return "", zerr.New("url has no file name")
	}
	return name, nil
}

func parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to parse yaml")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	if doc.Kind == yaml.DocumentNode {
		return doc.Content[0], nil
	}
	return &doc, nil
}

// mapping returns the key/value pairs of node, rejecting duplicate or
// unrecognized keys.
func mapping(node *yaml.Node, context string, allowed map[string]struct{}) (map[string]*yaml.Node, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, shapeError(node, context, "mapping")
	}

	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, value := node.Content[i], node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, shapeError(keyNode, context+" key", "scalar")
		}
		key := keyNode.Value
		if _, ok := allowed[key]; !ok {
			return nil, fieldError(domain.ErrUnknownField, keyNode, key)
		}
		if _, dup := fields[key]; dup {
			return nil, fieldError(domain.ErrDuplicateField, keyNode, key)
		}
		fields[key] = value
	}
	return fields, nil
}

// topLevel returns the recognized keys of the document root. Other keys
// belong to other tools and are skipped, but a repeated packages key is
// still rejected.
func topLevel(node *yaml.Node) (map[string]*yaml.Node, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, shapeError(node, "document", "mapping")
	}

	fields := make(map[string]*yaml.Node, 1)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, value := node.Content[i], node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			continue
		}
		if _, ok := documentFields[keyNode.Value]; !ok {
			continue
		}
		if _, dup := fields[keyNode.Value]; dup {
			return nil, fieldError(domain.ErrDuplicateField, keyNode, keyNode.Value)
		}
		fields[keyNode.Value] = value
	}
	return fields, nil
}

func sequence(node *yaml.Node, context string) ([]*yaml.Node, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, shapeError(node, context, "sequence")
	}
	return node.Content, nil
}

func scalar(node *yaml.Node, field string) (string, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", shapeError(node, field, "scalar")
	}
	if isNull(node) {
		return "", nil
	}
	return strings.TrimSpace(node.Value), nil
}

func requiredString(parent *yaml.Node, fields map[string]*yaml.Node, key string) (string, error) {
	value, ok := fields[key]
	if !ok {
		return "", fieldError(domain.ErrMissingField, parent, key)
	}
	s, err := scalar(value, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fieldError(domain.ErrMissingField, value, key)
	}
	return s, nil
}

func parseScope(node *yaml.Node) (domain.Scope, error) {
	raw, err := scalar(node, keyScope)
	if err != nil {
		return "", err
	}
	scope, ok := domain.ParseScope(raw)
	if !ok {
		return "", errors.Join(zerr.With(zerr.New("scope must be user or system"), "scope", raw), domain.ErrInvalidScope)
	}
	return scope, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	node = resolve(node)
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}
