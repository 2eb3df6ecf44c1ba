package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything identified by a UUID with creation and modification times.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// BaseEntity carries identity and timestamps for embedding.
//
// Identifiers are UUIDv7 so that their string form sorts in creation order.
// Stores rely on this to return records in insertion order.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity returns an entity with a fresh time-ordered ID.
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{
		id:        NewID(),
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{
		id:        id,
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
	}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// Touch bumps updatedAt.
func (e *BaseEntity) Touch() {
	e.updatedAt = Now()
}

// NewID generates a UUIDv7. It falls back to a random v4 if the clock source fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Now returns the current time in UTC truncated to milliseconds, the
// finest precision every backend round-trips (BSON dates stop there).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
