package task

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
)

const timeLayout = "2006-01-02 15:04"

func printTask(out io.Writer, t *queries.TaskDTO) {
	fmt.Fprintf(out, "Task: %s\n", t.ID)
	fmt.Fprintf(out, "  Text:      %s\n", t.Task)
	fmt.Fprintf(out, "  Status:    %s\n", formatStatus(t.Completed))
	fmt.Fprintf(out, "  Created:   %s\n", t.CreatedAt.Local().Format(timeLayout))
	if !t.UpdatedAt.Equal(t.CreatedAt) {
		fmt.Fprintf(out, "  Updated:   %s\n", t.UpdatedAt.Local().Format(timeLayout))
	}
}

func getStatusIcon(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func formatStatus(completed bool) string {
	if completed {
		return "Completed"
	}
	return "Open"
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
