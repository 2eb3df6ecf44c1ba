package cli

import (
	"fmt"

	internalApp "github.com/felixgeelhaar/todo/internal/app"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply the embedded schema migrations to the configured SQL database.

Document stores (mongodb, redis, memory) have no schema and are skipped.

Examples:
  todo migrate
  DATABASE_URL=postgres://localhost/todo todo migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		applied, driver, err := internalApp.Migrate(cmd.Context(), cfg, Logger())
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		out := cmd.OutOrStdout()
		if !driver.IsSQL() {
			fmt.Fprintf(out, "Driver %s has no schema to migrate.\n", driver)
			return nil
		}
		if len(applied) == 0 {
			fmt.Fprintf(out, "Schema is up to date (%s).\n", driver)
			return nil
		}
		fmt.Fprintf(out, "Applied %d migration(s) to %s:\n", len(applied), driver)
		for _, name := range applied {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
	Annotations: map[string]string{SkipAppAnnotation: "true"},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
