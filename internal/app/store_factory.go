package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/felixgeelhaar/todo/pkg/config"
)

// ResolveDriver returns the backend selected by DATABASE_DRIVER, or by the
// DATABASE_URL scheme when the driver is "auto".
func ResolveDriver(cfg *config.Config) (database.Driver, error) {
	if cfg.DatabaseDriver == "" || cfg.DatabaseDriver == "auto" {
		return database.DetectDriver(cfg.DatabaseURL), nil
	}
	driver := database.Driver(cfg.DatabaseDriver)
	if !driver.IsValid() {
		return "", fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	return driver, nil
}

// OpenStore opens the configured backend. SQL backends are migrated first
// when MIGRATE_ON_START is set. The returned store owns its connection.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (task.Store, database.Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, err := ResolveDriver(cfg)
	if err != nil {
		return nil, "", err
	}

	switch driver {
	case database.DriverPostgres, database.DriverSQLite:
		conn, err := openConnection(ctx, cfg, driver)
		if err != nil {
			return nil, "", err
		}
		if cfg.MigrateOnStart {
			if _, err := migrations.NewRunner(conn, logger).Up(ctx); err != nil {
				conn.Close()
				return nil, "", fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		logger.Info("connected to database", "driver", driver)
		return persistence.NewSQLStore(conn), driver, nil

	case database.DriverMongo:
		store, err := persistence.NewMongoStore(ctx, cfg.DatabaseURL, cfg.DatabaseName, logger)
		if err != nil {
			return nil, "", err
		}
		return store, driver, nil

	case database.DriverRedis:
		store, err := persistence.NewRedisStore(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, "", err
		}
		logger.Info("connected to Redis")
		return store, driver, nil

	case database.DriverMemory:
		logger.Warn("using in-memory task store, data will not survive a restart")
		return persistence.NewMemoryStore(), driver, nil

	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Migrate applies pending SQL migrations and returns the applied versions.
// Document backends need none and return an empty list.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]string, database.Driver, error) {
	driver, err := ResolveDriver(cfg)
	if err != nil {
		return nil, "", err
	}
	if !driver.IsSQL() {
		return nil, driver, nil
	}

	conn, err := openConnection(ctx, cfg, driver)
	if err != nil {
		return nil, driver, err
	}
	defer conn.Close()

	applied, err := migrations.NewRunner(conn, logger).Up(ctx)
	return applied, driver, err
}

func openConnection(ctx context.Context, cfg *config.Config, driver database.Driver) (database.Connection, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:   driver,
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}
