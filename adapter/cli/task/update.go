package task

import (
	"fmt"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/spf13/cobra"
)

var (
	updateText      string
	updateCompleted bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update the text or completion state of an existing task.
Only the flags you pass are changed.

Examples:
  todo task update <id> --text "Buy oat milk"
  todo task update <id> --completed=false`,
	Aliases: []string{"edit"},
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

		updateTaskCmd := commands.UpdateTaskCommand{TaskID: taskID}
		if cmd.Flags().Changed("text") {
			updateTaskCmd.Task = &updateText
		}
		if cmd.Flags().Changed("completed") {
			updateTaskCmd.Completed = &updateCompleted
		}
		if updateTaskCmd.Task == nil && updateTaskCmd.Completed == nil {
			return fmt.Errorf("nothing to update: pass --text or --completed")
		}

		ctx := cmd.Context()
		result, err := app.UpdateTaskHandler.Handle(ctx, updateTaskCmd)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", result.ID)
		printTask(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateText, "text", "", "new task text")
	updateCmd.Flags().BoolVar(&updateCompleted, "completed", false, "completion state")
}
