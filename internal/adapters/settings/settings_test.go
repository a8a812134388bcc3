package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NoSpawnn/bow/internal/adapters/settings"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	for _, key := range []string{"BOW_CONFIG", "BOW_STATE_DIR", "BOW_ASSUME_YES", "BOW_FAIL_FAST", "BOW_DRY_RUN", "BOW_VERBOSE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return root
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("bow", pflag.ContinueOnError)
	settings.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	root := isolate(t)

	s, err := settings.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "config", "bow", "packages.yaml"), s.Config)
	assert.Equal(t, filepath.Join(root, "state", "bow"), s.StateDir)
	assert.Equal(t, filepath.Join(root, "state", "bow", "binaries.yaml"), s.RecordPath())
	assert.Equal(t, filepath.Join(root, "state", "bow", "bow.lock"), s.LockPath())
	assert.False(t, s.AssumeYes)
	assert.False(t, s.DryRun)
	assert.False(t, s.Verbose)
	assert.Equal(t, settings.DefaultCommandTimeout, s.CommandTimeout)
	assert.Equal(t, settings.DefaultDownloadTimeout, s.DownloadTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	root := isolate(t)

	settingsFile := filepath.Join(root, "settings.yaml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("state_dir: /from/file\nfail_fast: true\ncommand_timeout: 30s\n"), 0o600))
	t.Setenv("BOW_STATE_DIR", "/from/env")

	s, err := settings.Load(newFlags(t, "--yes"), settings.WithSettingsFile(settingsFile))
	require.NoError(t, err)

	assert.Equal(t, "/from/env", s.StateDir, "env overrides file")
	assert.True(t, s.FailFast, "file overrides defaults")
	assert.Equal(t, 30*time.Second, s.CommandTimeout)
	assert.True(t, s.AssumeYes, "flags override everything")
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BOW_CONFIG", "/env/packages.yaml")

	s, err := settings.Load(newFlags(t, "-c", "/flag/packages.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/flag/packages.yaml", s.Config)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("BOW_FAIL_FAST", "true")

	s, err := settings.Load(newFlags(t))
	require.NoError(t, err)
	assert.True(t, s.FailFast)
}

func TestLoad_NilFlags(t *testing.T) {
	isolate(t)

	s, err := settings.Load(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Config)
}

func TestLoad_BadSettingsFile(t *testing.T) {
	root := isolate(t)
	settingsFile := filepath.Join(root, "settings.yaml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("state_dir: [unterminated"), 0o600))

	_, err := settings.Load(nil, settings.WithSettingsFile(settingsFile))
	require.Error(t, err)
}

func TestLoad_BooleanFlags(t *testing.T) {
	isolate(t)

	s, err := settings.Load(newFlags(t, "-y", "--dry-run", "-v", "--download-timeout", "1m"))
	require.NoError(t, err)
	assert.True(t, s.AssumeYes)
	assert.True(t, s.DryRun)
	assert.True(t, s.Verbose)
	assert.Equal(t, time.Minute, s.DownloadTimeout)
}

func TestLoad_AssumeYesFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BOW_ASSUME_YES", "true")

	s, err := settings.Load(newFlags(t))
	require.NoError(t, err)
	assert.True(t, s.AssumeYes)
}
