package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todo/internal/todo/application/commands"
	"github.com/felixgeelhaar/todo/internal/todo/application/queries"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/felixgeelhaar/todo/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Store is the task store handle, wrapped in a circuit breaker when enabled.
	Store    task.Store
	DBDriver database.Driver

	EventPublisher eventbus.Publisher

	// Metrics is nil when METRICS_ENABLED is false.
	Metrics *observability.InMemoryMetrics

	// Task Command Handlers
	AddTaskHandler    *commands.AddTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Task Query Handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler
}

// NewContainer opens the store and event publisher and wires the handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, driver, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	var metrics *observability.InMemoryMetrics
	if cfg.MetricsEnabled {
		metrics = observability.NewInMemoryMetrics()
	}

	if cfg.BreakerEnabled {
		maxFailures, err := convert.IntToUint32(cfg.BreakerMaxFailures)
		if err != nil {
			store.Close()
			publisher.Close()
			return nil, fmt.Errorf("invalid breaker threshold: %w", err)
		}
		breakerCfg := persistence.BreakerConfig{
			MaxFailures: maxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		}
		if metrics != nil {
			breakerCfg.Metrics = metrics
		}
		store = persistence.NewBreakerStore(store, breakerCfg, logger)
	}

	if metrics != nil {
		store = persistence.NewInstrumentedStore(store, metrics, driver.String())
	}

	c := NewContainerWithStore(cfg, logger, store, publisher)
	c.DBDriver = driver
	c.Metrics = metrics
	return c, nil
}

// NewContainerWithStore wires handlers around an already-open store. Tests
// use it with persistence.NewMemoryStore.
func NewContainerWithStore(cfg *config.Config, logger *slog.Logger, store task.Store, publisher eventbus.Publisher) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.Config{AppEnv: "development"}
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Store:          store,
		DBDriver:       database.DriverMemory,
		EventPublisher: publisher,

		AddTaskHandler:    commands.NewAddTaskHandler(store, publisher, logger),
		UpdateTaskHandler: commands.NewUpdateTaskHandler(store, publisher, logger),
		DeleteTaskHandler: commands.NewDeleteTaskHandler(store, publisher, logger),

		ListTasksHandler: queries.NewListTasksHandler(store),
		GetTaskHandler:   queries.NewGetTaskHandler(store),
	}
}

// newPublisher connects to RabbitMQ when configured. Outside development a
// broken broker URL is fatal; in development it degrades to the noop publisher.
func newPublisher(cfg *config.Config, logger *slog.Logger) (eventbus.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		return eventbus.NewNoopPublisher(logger), nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			return eventbus.NewNoopPublisher(logger), nil
		}
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return publisher, nil
}

// Close releases the publisher and then the store.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("error closing task store", "error", err)
		} else {
			c.Logger.Info("task store closed", "driver", c.DBDriver)
		}
	}
}
