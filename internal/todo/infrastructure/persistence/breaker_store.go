package persistence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/pkg/observability"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker around a store.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive infrastructure failures that open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of trial requests let through while half-open.
	HalfOpenRequests uint32
	// Metrics, when set, receives the breaker state as a gauge.
	Metrics observability.Metrics
}

// DefaultBreakerConfig returns the defaults used by the service.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:      5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// BreakerStore decorates a Store with a circuit breaker. Not-found and
// validation results are normal answers and never trip it. While open, calls
// fail fast with a StoreError.
type BreakerStore struct {
	next    task.Store
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerStore wraps next.
func NewBreakerStore(next task.Store, cfg BreakerConfig, logger *slog.Logger) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultBreakerConfig()
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = defaults.MaxFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = defaults.HalfOpenRequests
	}

	settings := gobreaker.Settings{
		Name:        "task-store",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				task.IsNotFound(err) ||
				task.IsValidation(err) ||
				task.IsConflict(err) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			if cfg.Metrics != nil {
				cfg.Metrics.Gauge(observability.MetricBreakerState, float64(to), observability.T("breaker", name))
			}
		},
	}

	return &BreakerStore{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

// State reports the breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStore) Create(ctx context.Context, t *task.Task) error {
	_, err := execute(s, "create", func() (struct{}, error) {
		return struct{}{}, s.next.Create(ctx, t)
	})
	return err
}

func (s *BreakerStore) List(ctx context.Context) ([]*task.Task, error) {
	return execute(s, "list", func() ([]*task.Task, error) {
		return s.next.List(ctx)
	})
}

func (s *BreakerStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return execute(s, "find", func() (*task.Task, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *BreakerStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	return execute(s, "update", func() (*task.Task, error) {
		return s.next.Update(ctx, id, changes)
	})
}

func (s *BreakerStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := execute(s, "delete", func() (struct{}, error) {
		return struct{}{}, s.next.Delete(ctx, id)
	})
	return err
}

func (s *BreakerStore) Ping(ctx context.Context) error {
	_, err := execute(s, "ping", func() (struct{}, error) {
		return struct{}{}, s.next.Ping(ctx)
	})
	return err
}

// Close bypasses the breaker.
func (s *BreakerStore) Close() error {
	return s.next.Close()
}

func execute[T any](s *BreakerStore, op string, fn func() (T, error)) (T, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Debug("store call rejected by circuit breaker", "op", op)
			return zero, task.NewStoreError(op, err)
		}
		return zero, err
	}
	return result.(T), nil
}
