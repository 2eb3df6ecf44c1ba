package commands

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// UpdateTaskCommand carries a partial update. Nil fields are left unchanged.
type UpdateTaskCommand struct {
	TaskID    uuid.UUID
	Task      *string
	Completed *bool
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	store     task.Store
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(store task.Store, publisher eventbus.Publisher, logger *slog.Logger) *UpdateTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateTaskHandler{store: store, publisher: publisher, logger: logger}
}

// Handle applies the changes atomically in the store. An empty update
// returns the current record and publishes nothing.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*queries.TaskDTO, error) {
	changes, err := task.Changes{Text: cmd.Task, Completed: cmd.Completed}.Normalize()
	if err != nil {
		return nil, err
	}

	t, err := h.store.Update(ctx, cmd.TaskID, changes)
	if err != nil {
		return nil, err
	}

	if !changes.IsEmpty() {
		event := task.NewTaskUpdated(t.ID(), changes.Fields())
		eventbus.PublishAll(ctx, h.publisher, h.logger, sharedApplication.NewEventMetadata(ctx), event)
		h.logger.Info("task updated", "task_id", t.ID(), "fields", changes.Fields())
	}

	dto := queries.NewTaskDTO(t)
	return &dto, nil
}
