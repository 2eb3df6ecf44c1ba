package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
)

// AddTaskCommand contains the data needed to create a task.
type AddTaskCommand struct {
	Task      string
	Completed bool
}

// AddTaskHandler handles the AddTaskCommand.
type AddTaskHandler struct {
	store     task.Store
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewAddTaskHandler creates a new AddTaskHandler.
func NewAddTaskHandler(store task.Store, publisher eventbus.Publisher, logger *slog.Logger) *AddTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddTaskHandler{store: store, publisher: publisher, logger: logger}
}

// Handle validates the text, stores the new task and publishes todo.task.added.
func (h *AddTaskHandler) Handle(ctx context.Context, cmd AddTaskCommand) (*queries.TaskDTO, error) {
	t, err := task.NewTask(cmd.Task, cmd.Completed)
	if err != nil {
		return nil, err
	}

	if err := h.store.Create(ctx, t); err != nil {
		return nil, err
	}

	eventbus.PublishAll(ctx, h.publisher, h.logger, sharedApplication.NewEventMetadata(ctx), t.DomainEvents()...)
	t.ClearDomainEvents()

	h.logger.Info("task added", "task_id", t.ID())

	dto := queries.NewTaskDTO(t)
	return &dto, nil
}
