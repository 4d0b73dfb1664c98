package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newEntryCmd(entry domain.Task) *cobra.Command {
	return &cobra.Command{
		Use:   entry.Name,
		Short: entry.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runEntry(cmd, entry.Name)
		},
	}
}

func (c *CLI) runEntry(cmd *cobra.Command, entry string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logFormat, _ := cmd.Flags().GetString("log-format")

	return c.app.Run(cmd.Context(), entry, app.RunOptions{
		ConfigPath: configPath,
		LogFormat:  logFormat,
	})
}
