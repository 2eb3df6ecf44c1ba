package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/spf13/cobra"
)

var addCompleted bool

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long: `Add a new task. All arguments are joined into the task text.

Examples:
  todo task add "Buy milk"
  todo task add Call the plumber
  todo task add "Already handled" --completed`,
	Aliases: []string{"create", "new"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		result, err := app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{
			Task:      strings.Join(args, " "),
			Completed: addCompleted,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task added: %s\n", result.ID)
		fmt.Fprintf(out, "  task: %s\n", result.Task)
		if result.Completed {
			fmt.Fprintln(out, "  completed: yes")
		}
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addCompleted, "completed", false, "create the task already completed")
}
