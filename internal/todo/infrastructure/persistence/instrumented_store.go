package persistence

import (
	"context"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/pkg/observability"
	"github.com/google/uuid"
)

// InstrumentedStore records per-operation counts, durations and
// infrastructure failures for the wrapped store. Not-found, validation and
// conflict results are not counted as errors.
type InstrumentedStore struct {
	next    task.Store
	metrics observability.Metrics
	driver  observability.Tag
}

// NewInstrumentedStore wraps next. driver tags every metric.
func NewInstrumentedStore(next task.Store, metrics observability.Metrics, driver string) *InstrumentedStore {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &InstrumentedStore{next: next, metrics: metrics, driver: observability.T("driver", driver)}
}

func (s *InstrumentedStore) Create(ctx context.Context, t *task.Task) error {
	return s.time("create", func() error { return s.next.Create(ctx, t) })
}

func (s *InstrumentedStore) List(ctx context.Context) ([]*task.Task, error) {
	return timeResult(s, "list", func() ([]*task.Task, error) { return s.next.List(ctx) })
}

func (s *InstrumentedStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return timeResult(s, "find", func() (*task.Task, error) { return s.next.FindByID(ctx, id) })
}

func (s *InstrumentedStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	return timeResult(s, "update", func() (*task.Task, error) { return s.next.Update(ctx, id, changes) })
}

func (s *InstrumentedStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.time("delete", func() error { return s.next.Delete(ctx, id) })
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.time("ping", func() error { return s.next.Ping(ctx) })
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

// time records op and returns fn's unfiltered error.
func (s *InstrumentedStore) time(op string, fn func() error) error {
	var err error
	_ = observability.TimeOperation(s.metrics, op, func() error {
		err = fn()
		return storeFailure(err)
	}, s.driver)
	return err
}

func timeResult[T any](s *InstrumentedStore, op string, fn func() (T, error)) (T, error) {
	var err error
	result, _ := observability.TimeOperationResult(s.metrics, op, func() (T, error) {
		result, ferr := fn()
		err = ferr
		return result, storeFailure(ferr)
	}, s.driver)
	return result, err
}

// storeFailure drops errors that are ordinary answers rather than failures.
func storeFailure(err error) error {
	if err == nil || task.IsNotFound(err) || task.IsValidation(err) || task.IsConflict(err) {
		return nil
	}
	return err
}
