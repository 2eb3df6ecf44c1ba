package task

import (
	"fmt"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task",
	Long: `Delete a task permanently.

Examples:
  todo task rm 0190f5d2-7c1e-7b3a-9a51-0d8c2f7e4b11`,
	Aliases: []string{"delete", "remove"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := task.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		ctx := cmd.Context()
		if err := app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: taskID}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", taskID)
		return nil
	},
}
