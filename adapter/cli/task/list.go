package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List every task in insertion order.

Examples:
  todo task list
  todo task list --json`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return writeJSON(out, tasks)
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		open := 0
		for _, t := range tasks {
			if !t.Completed {
				open++
			}
		}

		fmt.Fprintf(out, "Tasks (%d, %d open):\n", len(tasks), open)
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, t := range tasks {
			fmt.Fprintf(out, "%s %s\n", getStatusIcon(t.Completed), t.Task)
			fmt.Fprintf(out, "   ID: %s\n", t.ID)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print tasks as JSON")
}
