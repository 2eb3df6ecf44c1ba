package task

import (
	"context"

	"github.com/google/uuid"
)

// Store persists tasks. Every method is a single atomic operation on one
// record, except List which reads all records in insertion order.
//
// Implementations return ErrTaskNotFound for unknown ids, a *ValidationError
// for rejected input and a *StoreError for infrastructure failures.
type Store interface {
	Create(ctx context.Context, t *Task) error
	List(ctx context.Context) ([]*Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// Update applies changes and returns the record as stored afterwards.
	// Empty changes return the current record.
	Update(ctx context.Context, id uuid.UUID, changes Changes) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}
