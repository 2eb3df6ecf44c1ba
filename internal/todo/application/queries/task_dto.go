package queries

import (
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is the read model shared by every surface (HTTP, CLI, MCP).
type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskDTO maps a domain task to its read model.
func NewTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID(),
		Task:      t.Text(),
		Completed: t.Completed(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}
