package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/adapter/cli/mcp"
	"github.com/felixgeelhaar/todo/adapter/cli/task"
	"github.com/felixgeelhaar/todo/internal/app"
	"github.com/felixgeelhaar/todo/pkg/config"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)
	cli.SetConfig(cfg)

	// The container is opened on first use so version and migrate work without a store.
	var container *app.Container

	cli.SetAppInitializer(func(ctx context.Context) (*cli.App, error) {
		c, err := app.NewContainer(ctx, cfg, cli.Logger())
		if err != nil {
			return nil, err
		}
		container = c

		cliApp := cli.NewApp(
			container.AddTaskHandler,
			container.UpdateTaskHandler,
			container.DeleteTaskHandler,
			container.ListTasksHandler,
			container.GetTaskHandler,
		)
		cliApp.SetStore(container.Store)
		return cliApp, nil
	})

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI, then release the store before deciding the exit code
	err = cli.ExecuteContext(ctx)
	if container != nil {
		container.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
