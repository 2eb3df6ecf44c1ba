package queries

import (
	"context"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// GetTaskQuery looks up a single task.
type GetTaskQuery struct {
	TaskID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	store task.Store
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(store task.Store) *GetTaskHandler {
	return &GetTaskHandler{store: store}
}

// Handle returns task.ErrTaskNotFound when the id is unknown.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.store.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}

	dto := NewTaskDTO(t)
	return &dto, nil
}
