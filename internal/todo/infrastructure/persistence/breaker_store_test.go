package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/felixgeelhaar/todo/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewBreakerStore(persistence.NewMemoryStore(), persistence.DefaultBreakerConfig(), nil)

	runStoreContract(t, func(t *testing.T) task.Store {
		return persistence.NewBreakerStore(persistence.NewMemoryStore(), persistence.DefaultBreakerConfig(), nil)
	})

	tk := mustTask(t, "through the breaker")
	require.NoError(t, store.Create(ctx, tk))
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	next := new(mockStore)
	next.On("List", ctx).Return(nil, task.NewStoreError("list", errors.New("connection refused")))

	store := persistence.NewBreakerStore(next, persistence.BreakerConfig{
		MaxFailures: 3,
		OpenTimeout: time.Minute,
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := store.List(ctx)
		assert.True(t, task.IsStoreError(err))
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())

	_, err := store.List(ctx)
	assert.True(t, task.IsStoreError(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	next.AssertNumberOfCalls(t, "List", 3)
}

func TestBreakerStore_NotFoundAndValidationDoNotTrip(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	next := new(mockStore)
	next.On("FindByID", ctx, id).Return(nil, task.ErrTaskNotFound)
	next.On("Create", ctx, mock.Anything).Return(task.NewValidationError("task", "cannot be empty"))

	store := persistence.NewBreakerStore(next, persistence.BreakerConfig{MaxFailures: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := store.FindByID(ctx, id)
		assert.True(t, task.IsNotFound(err))

		err = store.Create(ctx, mustTask(t, "x"))
		assert.True(t, task.IsValidation(err))
	}

	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_ConflictDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	done := true
	changes := task.Changes{Completed: &done}
	next := new(mockStore)
	next.On("Update", ctx, id, changes).Return(nil, task.ErrConflict)

	store := persistence.NewBreakerStore(next, persistence.BreakerConfig{MaxFailures: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := store.Update(ctx, id, changes)
		assert.True(t, task.IsConflict(err))
		assert.False(t, task.IsStoreError(err))
	}

	assert.Equal(t, gobreaker.StateClosed, store.State())
	next.AssertNumberOfCalls(t, "Update", 3)
}

func TestBreakerStore_CloseBypassesBreaker(t *testing.T) {
	next := new(mockStore)
	next.On("Close").Return(nil).Once()

	store := persistence.NewBreakerStore(next, persistence.BreakerConfig{}, nil)

	require.NoError(t, store.Close())
	next.AssertExpectations(t)
}

func TestBreakerStore_ReportsStateGauge(t *testing.T) {
	ctx := context.Background()
	next := new(mockStore)
	next.On("Ping", ctx).Return(task.NewStoreError("ping", errors.New("down")))

	metrics := observability.NewInMemoryMetrics()
	store := persistence.NewBreakerStore(next, persistence.BreakerConfig{
		MaxFailures: 1,
		OpenTimeout: time.Minute,
		Metrics:     metrics,
	}, nil)

	require.Error(t, store.Ping(ctx))
	assert.Equal(t, float64(gobreaker.StateOpen),
		metrics.GetGauge(observability.MetricBreakerState, observability.T("breaker", "task-store")))
}
