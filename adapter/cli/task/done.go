package task

import (
	"fmt"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed by its ID.

Examples:
  todo task done 0190f5d2-7c1e-7b3a-9a51-0d8c2f7e4b11`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := task.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		completed := true
		ctx := cmd.Context()
		if _, err := app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
			TaskID:    taskID,
			Completed: &completed,
		}); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s\n", taskID)
		return nil
	},
}
