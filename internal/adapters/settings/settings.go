// Package settings resolves bow's own runtime options.
//
// Values are layered with the following precedence (high to low):
// explicitly set flags, BOW_* environment variables, the optional
// settings file, built-in defaults.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NoSpawnn/bow/internal/adapters/records"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of environment variables read into Settings.
const EnvPrefix = "BOW_"

const (
	// DefaultCommandTimeout bounds a single package manager command.
	DefaultCommandTimeout = 10 * time.Minute
	// DefaultDownloadTimeout bounds a single binary download.
	DefaultDownloadTimeout = 5 * time.Minute
)

// Settings holds the runtime options of a bow invocation.
type Settings struct {
	Config          string        `koanf:"config"`
	StateDir        string        `koanf:"state_dir"`
	AssumeYes       bool          `koanf:"assume_yes"`
	DryRun          bool          `koanf:"dry_run"`
	FailFast        bool          `koanf:"fail_fast"`
	Verbose         bool          `koanf:"verbose"`
	CommandTimeout  time.Duration `koanf:"command_timeout"`
	DownloadTimeout time.Duration `koanf:"download_timeout"`
}

// RegisterFlags adds the flags understood by Load to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Path to the package configuration (default $XDG_CONFIG_HOME/bow/packages.yaml)")
	flags.String("state-dir", "", "Directory for bow state (default $XDG_STATE_HOME/bow)")
	flags.BoolP("yes", "y", false, "Answer yes to every confirmation")
	flags.Bool("dry-run", false, "Show the plan without changing anything")
	flags.Bool("fail-fast", false, "Stop at the first provider that fails")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Duration("command-timeout", DefaultCommandTimeout, "Timeout for each package manager invocation")
	flags.Duration("download-timeout", DefaultDownloadTimeout, "Timeout for each binary download")
}

type loadOptions struct {
	settingsFile string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithSettingsFile reads settings from path instead of the default location.
func WithSettingsFile(path string) LoadOption {
	return func(o *loadOptions) { o.settingsFile = path }
}

// Load resolves Settings. flags may be nil.
func Load(flags *pflag.FlagSet, opts ...LoadOption) (*Settings, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	configDir, err := configDir()
	if err != nil {
		return nil, err
	}
	stateDir, err := records.DefaultStateDir()
	if err != nil {
		return nil, err
	}
	if o.settingsFile == "" {
		o.settingsFile = filepath.Join(configDir, "settings.yaml")
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"config":           filepath.Join(configDir, "packages.yaml"),
		"state_dir":        stateDir,
		"assume_yes":       false,
		"dry_run":          false,
		"fail_fast":        false,
		"verbose":          false,
		"command_timeout":  DefaultCommandTimeout,
		"download_timeout": DefaultDownloadTimeout,
	}, "."), nil); err != nil {
		return nil, zerr.Wrap(err, "failed to load default settings")
	}

	// 2. Settings file
	if _, err := os.Stat(o.settingsFile); err == nil {
		if err := k.Load(file.Provider(o.settingsFile), yaml.Parser()); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", o.settingsFile)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat settings file"), "path", o.settingsFile)
	}

	// 3. Environment: BOW_STATE_DIR -> state_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, zerr.Wrap(err, "failed to load environment settings")
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, zerr.Wrap(err, "failed to load flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, zerr.Wrap(err, "failed to decode settings")
	}
	if s.CommandTimeout <= 0 {
		s.CommandTimeout = DefaultCommandTimeout
	}
	if s.DownloadTimeout <= 0 {
		s.DownloadTimeout = DefaultDownloadTimeout
	}
	return &s, nil
}

// LockPath returns the run lock inside the state directory.
func (s *Settings) LockPath() string {
	return filepath.Join(s.StateDir, "bow.lock")
}

// RecordPath returns the installed-binaries record inside the state directory.
func (s *Settings) RecordPath() string {
	return filepath.Join(s.StateDir, records.FileName)
}

// flagKey maps a flag name onto its settings key.
func flagKey(name string) string {
	if name == "yes" {
		return "assume_yes"
	}
	return strings.ReplaceAll(name, "-", "_")
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bow"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "cannot locate config directory")
	}
	return filepath.Join(home, ".config", "bow"), nil
}
