package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
)

// MemoryStore keeps tasks in process memory. It backs tests and memory:// demos.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[uuid.UUID]taskDocument
	order  []uuid.UUID
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[uuid.UUID]taskDocument)}
}

func (s *MemoryStore) Create(_ context.Context, t *task.Task) error {
	if err := validateNew(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("create"); err != nil {
		return err
	}
	if _, exists := s.docs[t.ID()]; exists {
		return task.NewStoreError("create", errDuplicateID)
	}

	s.docs[t.ID()] = toDocument(t)
	s.order = append(s.order, t.ID())
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("list"); err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(s.order))
	for _, id := range s.order {
		t, err := s.docs[id].toTask()
		if err != nil {
			return nil, task.NewStoreError("list", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("find"); err != nil {
		return nil, err
	}

	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	t, err := doc.toTask()
	if err != nil {
		return nil, task.NewStoreError("find", err)
	}
	return t, nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	changes, err := changes.Normalize()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("update"); err != nil {
		return nil, err
	}

	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	t, err := doc.toTask()
	if err != nil {
		return nil, task.NewStoreError("update", err)
	}

	t.Apply(changes)
	s.docs[id] = toDocument(t)
	return t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen("delete"); err != nil {
		return err
	}
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}

	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkOpen("ping")
}

// Close marks the store closed; later calls fail with a StoreError.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) checkOpen(op string) error {
	if s.closed {
		return task.NewStoreError(op, errStoreClosed)
	}
	return nil
}
