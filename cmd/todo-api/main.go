package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/todo/adapter/api"
	"github.com/felixgeelhaar/todo/internal/app"
	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/version"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/felixgeelhaar/todo/pkg/observability"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logCfg := cfg.LogConfig("todo-api")
	logCfg.ServiceVersion = version.Version
	logCfg.ContextAttrs = sharedApplication.LogAttrs
	logger = observability.NewLogger(logCfg)
	slog.SetDefault(logger)

	logger.Info("starting todo api", "env", cfg.AppEnv)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	handler := api.NewTaskHandler(api.TaskHandlerConfig{
		AddTask:    container.AddTaskHandler,
		UpdateTask: container.UpdateTaskHandler,
		DeleteTask: container.DeleteTaskHandler,
		ListTasks:  container.ListTasksHandler,
		GetTask:    container.GetTaskHandler,
		Logger:     logger,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	serverCfg.BasePath = cfg.APIBasePath
	serverCfg.AllowedOrigin = cfg.CORSAllowedOrigin
	serverCfg.Metrics = container.Metrics
	server := api.NewServer(serverCfg, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			logger.Error("api server error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	logger.Info("todo api stopped")
}
