package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// taskDocument is the stored shape of a task for document backends
// (Mongo, Redis, memory).
type taskDocument struct {
	ID        string    `bson:"_id" json:"id"`
	Task      string    `bson:"task" json:"task"`
	Completed bool      `bson:"completed" json:"completed"`
	Version   int       `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func toDocument(t *task.Task) taskDocument {
	return taskDocument{
		ID:        t.ID().String(),
		Task:      t.Text(),
		Completed: t.Completed(),
		Version:   t.Version(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

func (d taskDocument) toTask() (*task.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", d.ID, err)
	}
	return task.RehydrateTask(id, d.Task, d.Completed, d.Version, d.CreatedAt, d.UpdatedAt), nil
}

// validateNew rejects tasks that did not come through task.NewTask.
func validateNew(t *task.Task) error {
	if t == nil {
		return task.NewValidationError("task", "is required")
	}
	if t.ID() == uuid.Nil {
		return task.NewValidationError("id", "is required")
	}
	if strings.TrimSpace(t.Text()) == "" {
		return task.NewValidationError("task", "cannot be empty")
	}
	return nil
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("task %s: %w", id, task.ErrTaskNotFound)
}
