package queries

import (
	"context"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
)

// ListTasksQuery returns every task. It has no filters.
type ListTasksQuery struct{}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	store task.Store
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(store task.Store) *ListTasksHandler {
	return &ListTasksHandler{store: store}
}

// Handle returns all tasks in insertion order. The slice is never nil.
func (h *ListTasksHandler) Handle(ctx context.Context, _ ListTasksQuery) ([]TaskDTO, error) {
	tasks, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, NewTaskDTO(t))
	}
	return dtos, nil
}
