package cli

import (
	"fmt"

	"github.com/felixgeelhaar/todo/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "todo %s\n", version.Version)
		fmt.Fprintf(out, "  commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  built:  %s\n", version.BuildDate)
	},
	Annotations: map[string]string{SkipAppAnnotation: "true"},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
