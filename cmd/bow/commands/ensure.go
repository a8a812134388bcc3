package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newEnsureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Install and remove packages until the system matches the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), c.runOptions())
		},
	}
}

func (c *CLI) newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show what ensure would install and remove without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.runOptions()
			opts.DryRun = true
			return c.app.Run(cmd.Context(), opts)
		},
	}
}
