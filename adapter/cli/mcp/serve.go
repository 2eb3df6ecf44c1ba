package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/todo/adapter/cli"
	"github.com/felixgeelhaar/todo/internal/app"
	mcpinternal "github.com/felixgeelhaar/todo/internal/mcp"
	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/internal/version"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/felixgeelhaar/todo/pkg/observability"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := sharedApplication.WithSource(cmd.Context(), "mcp")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		logger := newServerLogger(cmd.OutOrStdout(), cfg)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		cliApp := mcpinternal.NewCLIApp(container)
		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
	// serve opens its own container with the MCP logger.
	Annotations: map[string]string{cli.SkipAppAnnotation: "true"},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides MCP_ADDR)")
}

func newServerLogger(out io.Writer, cfg *config.Config) *slog.Logger {
	logCfg := cfg.LogConfig("todo-mcp")
	logCfg.Output = out
	logCfg.ServiceVersion = version.Version
	logCfg.ContextAttrs = sharedApplication.LogAttrs
	return observability.NewLogger(logCfg)
}
