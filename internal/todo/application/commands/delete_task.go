package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// DeleteTaskCommand identifies the task to remove.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	store     task.Store
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(store task.Store, publisher eventbus.Publisher, logger *slog.Logger) *DeleteTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteTaskHandler{store: store, publisher: publisher, logger: logger}
}

// Handle removes the task and publishes todo.task.deleted.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	if err := h.store.Delete(ctx, cmd.TaskID); err != nil {
		return err
	}

	eventbus.PublishAll(ctx, h.publisher, h.logger, sharedApplication.NewEventMetadata(ctx), task.NewTaskDeleted(cmd.TaskID))
	h.logger.Info("task deleted", "task_id", cmd.TaskID)
	return nil
}
