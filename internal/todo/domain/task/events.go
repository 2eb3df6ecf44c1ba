package task

import (
	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyAdded   = "todo.task.added"
	RoutingKeyUpdated = "todo.task.updated"
	RoutingKeyDeleted = "todo.task.deleted"
)

// TaskAdded is emitted when a task is created.
type TaskAdded struct {
	domain.BaseEvent
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

func NewTaskAdded(taskID uuid.UUID, text string, completed bool) TaskAdded {
	return TaskAdded{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyAdded),
		Task:      text,
		Completed: completed,
	}
}

// TaskUpdated is emitted after a task changed.
type TaskUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"`
}

func NewTaskUpdated(taskID uuid.UUID, fields []string) TaskUpdated {
	return TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		Fields:    fields,
	}
}

// TaskDeleted is emitted after a task was removed.
type TaskDeleted struct {
	domain.BaseEvent
}

func NewTaskDeleted(taskID uuid.UUID) TaskDeleted {
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted),
	}
}
