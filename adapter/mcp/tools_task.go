package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/todo/adapter/cli"
	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
)

type taskAddInput struct {
	Task      string `json:"task" jsonschema:"required"`
	Completed bool   `json:"completed,omitempty"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskUpdateInput struct {
	TaskID    string  `json:"task_id" jsonschema:"required"`
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type taskDeleteResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// taskTools adapts the task handlers to MCP tool handlers.
type taskTools struct {
	app *cli.App
}

func newTaskTools(app *cli.App) *taskTools {
	return &taskTools{app: app}
}

// sourceContext marks ctx as driven by MCP so published events carry that source.
func sourceContext(ctx context.Context) context.Context {
	return sharedApplication.WithSource(ctx, "mcp")
}

func registerTaskTools(srv *mcp.Server, tools *taskTools) {
	srv.Tool("task.add").
		Description("Add a new task").
		Handler(tools.add)

	srv.Tool("task.list").
		Description("List all tasks in insertion order").
		Handler(tools.list)

	srv.Tool("task.get").
		Description("Get a task by id").
		Handler(tools.get)

	srv.Tool("task.update").
		Description("Update the text and/or completion state of a task").
		Handler(tools.update)

	srv.Tool("task.delete").
		Description("Delete a task").
		Handler(tools.remove)
}

func (t *taskTools) add(ctx context.Context, input taskAddInput) (*queries.TaskDTO, error) {
	ctx = sourceContext(ctx)
	if t.app == nil || t.app.AddTaskHandler == nil {
		return nil, errors.New("task creation requires database connection")
	}
	return t.app.AddTaskHandler.Handle(ctx, commands.AddTaskCommand{
		Task:      input.Task,
		Completed: input.Completed,
	})
}

func (t *taskTools) list(ctx context.Context, _ struct{}) ([]queries.TaskDTO, error) {
	ctx = sourceContext(ctx)
	if t.app == nil || t.app.ListTasksHandler == nil {
		return nil, errors.New("task listing requires database connection")
	}
	return t.app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{})
}

func (t *taskTools) get(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	ctx = sourceContext(ctx)
	if t.app == nil || t.app.GetTaskHandler == nil {
		return nil, errors.New("task lookup requires database connection")
	}
	taskID, err := task.ParseID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return t.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: taskID})
}

func (t *taskTools) update(ctx context.Context, input taskUpdateInput) (*queries.TaskDTO, error) {
	ctx = sourceContext(ctx)
	if t.app == nil || t.app.UpdateTaskHandler == nil {
		return nil, errors.New("task update requires database connection")
	}
	taskID, err := task.ParseID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return t.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
		TaskID:    taskID,
		Task:      input.Task,
		Completed: input.Completed,
	})
}

func (t *taskTools) remove(ctx context.Context, input taskIDInput) (*taskDeleteResult, error) {
	ctx = sourceContext(ctx)
	if t.app == nil || t.app.DeleteTaskHandler == nil {
		return nil, errors.New("task deletion requires database connection")
	}
	taskID, err := task.ParseID(input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := t.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: taskID}); err != nil {
		return nil, err
	}
	return &taskDeleteResult{Status: "deleted", ID: taskID.String()}, nil
}
