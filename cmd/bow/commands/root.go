// Package commands implements the CLI commands for bow.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/NoSpawnn/bow/internal/adapters/settings"
	"github.com/NoSpawnn/bow/internal/app"
	"github.com/NoSpawnn/bow/internal/build"
	"github.com/NoSpawnn/bow/internal/core/ports"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for bow.
type CLI struct {
	app          Application
	logger       ports.Logger
	rootCmd      *cobra.Command
	telemetry    ports.Telemetry
	settings     *settings.Settings
	settingsOpts []settings.LoadOption
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
// log may be nil; when it supports SetLevel, --verbose switches it to debug.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bow",
		Short:         "A declarative package manager for your desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Registered before the default version flag so -v stays with --verbose.
	settings.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.loadSettings

	rootCmd.AddCommand(c.newEnsureCmd())
	rootCmd.AddCommand(c.newDiffCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetTelemetry sets the recorder whose progress --verbose prints to stderr.
func (c *CLI) SetTelemetry(t ports.Telemetry) {
	c.telemetry = t
}

// SetSettingsOptions customizes how settings are resolved. Used for testing.
func (c *CLI) SetSettingsOptions(opts ...settings.LoadOption) {
	c.settingsOpts = opts
}

func (c *CLI) loadSettings(cmd *cobra.Command, _ []string) error {
	s, err := settings.Load(cmd.Flags(), c.settingsOpts...)
	if err != nil {
		return err
	}
	c.settings = s

	if s.Verbose {
		if lv, ok := c.logger.(interface{ SetLevel(slog.Level) }); ok {
			lv.SetLevel(slog.LevelDebug)
		}
		if out, ok := c.telemetry.(interface{ SetOutput(io.Writer) }); ok {
			out.SetOutput(cmd.ErrOrStderr())
		}
	}
	return nil
}

func (c *CLI) runOptions() app.RunOptions {
	s := c.settings
	return app.RunOptions{
		ConfigPath:      s.Config,
		RecordPath:      s.RecordPath(),
		LockPath:        s.LockPath(),
		AssumeYes:       s.AssumeYes,
		DryRun:          s.DryRun,
		FailFast:        s.FailFast,
		CommandTimeout:  s.CommandTimeout,
		DownloadTimeout: s.DownloadTimeout,
	}
}
