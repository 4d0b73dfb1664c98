package commands

import "github.com/spf13/cobra"

func (c *CLI) newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the available tasks and the steps they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Tasks(cmd.OutOrStdout())
		},
	}
}
