package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common task workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("review_tasks").
		Description("Walk through open tasks and decide what to finish, rephrase or drop.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Task Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me review my todo list.

1. Read the todo://tasks/open resource.
2. Group the open tasks into: done already, still relevant, no longer needed.
3. For tasks that are done, call task.update with completed=true.
4. For tasks whose text is vague, propose a clearer wording and use task.update after I agree.
5. For tasks no longer needed, ask me before calling task.delete.

Finish with a short summary of what changed.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("capture_tasks").
		Description("Turn free-form notes into individual tasks.").
		Argument("notes", "Notes, a message or a meeting summary to extract tasks from", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			notes := args["notes"]
			if notes == "" {
				notes = "[Paste the notes you want to turn into tasks]"
			}
			return &mcp.PromptResult{
				Description: "Capture Tasks",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Extract actionable tasks from the notes below.
Each task should be a single short imperative sentence.
Check todo://tasks first and skip anything that is already on the list,
then call task.add once per new task.

Notes:
%s`, notes),
						},
					},
				},
			}, nil
		})

	return nil
}
