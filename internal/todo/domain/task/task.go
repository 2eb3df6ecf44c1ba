package task

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/google/uuid"
)

// Task is a single todo record.
type Task struct {
	domain.BaseAggregateRoot
	text      string
	completed bool
}

// NewTask creates a task from user input. The text is trimmed and must not be empty.
func NewTask(text string, completed bool) (*Task, error) {
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		text:              text,
		completed:         completed,
	}

	t.AddDomainEvent(NewTaskAdded(t.ID(), t.text, t.completed))

	return t, nil
}

// RehydrateTask rebuilds a task from persisted state without validation or events.
func RehydrateTask(id uuid.UUID, text string, completed bool, version int, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(id, createdAt, updatedAt),
			version,
		),
		text:      text,
		completed: completed,
	}
}

func (t *Task) Text() string    { return t.text }
func (t *Task) Completed() bool { return t.completed }

// Apply merges already-normalized changes into the task and records the
// revision. An empty change set leaves the task untouched.
func (t *Task) Apply(changes Changes) {
	if changes.IsEmpty() {
		return
	}
	if changes.Text != nil {
		t.text = *changes.Text
	}
	if changes.Completed != nil {
		t.completed = *changes.Completed
	}
	t.IncrementVersion()
}

// ParseID parses a task id, reporting malformed input as a validation error.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", NewValidationError("task", "cannot be empty")
	}
	return text, nil
}
