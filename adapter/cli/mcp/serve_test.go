package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/todo/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestNewServerLogger(t *testing.T) {
	var buf bytes.Buffer

	newServerLogger(&buf, &config.Config{AppEnv: "production", LogLevel: "info", LogFormat: "text"}).Debug("hidden")
	assert.Empty(t, buf.String())

	logger := newServerLogger(&buf, &config.Config{AppEnv: "development", LogFormat: "text"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "service=todo-mcp")
}

func TestServeCmdRegistered(t *testing.T) {
	found := false
	for _, c := range Cmd.Commands() {
		if c.Name() == "serve" {
			found = true
		}
	}
	assert.True(t, found)
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
}
