package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
)

// RegisterResources registers MCP resources that expose task data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	registerTaskResource(srv, deps, "todo://tasks", "Tasks", "All tasks in insertion order", nil)
	registerTaskResource(srv, deps, "todo://tasks/open", "Open tasks", "Tasks not yet completed", func(t queries.TaskDTO) bool {
		return !t.Completed
	})
	registerTaskResource(srv, deps, "todo://tasks/completed", "Completed tasks", "Tasks marked as completed", func(t queries.TaskDTO) bool {
		return t.Completed
	})

	return nil
}

func registerTaskResource(srv *mcp.Server, deps ToolDependencies, uri, name, description string, keep func(queries.TaskDTO) bool) {
	app := deps.App

	srv.Resource(uri).
		Name(name).
		Description(description).
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.ListTasksHandler == nil {
				return nil, fmt.Errorf("task listing requires database connection")
			}

			tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
			if err != nil {
				return nil, err
			}

			data, err := json.MarshalIndent(filterTasks(tasks, keep), "", "  ")
			if err != nil {
				return nil, err
			}

			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}

func filterTasks(tasks []queries.TaskDTO, keep func(queries.TaskDTO) bool) []queries.TaskDTO {
	if keep == nil {
		return tasks
	}
	out := make([]queries.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
