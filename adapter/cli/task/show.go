package task

import (
	"fmt"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display a single task.

Examples:
  todo task show 0190f5d2-7c1e-7b3a-9a51-0d8c2f7e4b11`,
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := task.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		ctx := cmd.Context()
		t, err := app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		printTask(cmd.OutOrStdout(), t)
		return nil
	},
}
