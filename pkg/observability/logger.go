package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	// LogFormatText outputs human-readable text logs.
	LogFormatText LogFormat = "text"
	// LogFormatJSON outputs JSON-structured logs for production.
	LogFormatJSON LogFormat = "json"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level  slog.Level
	Format LogFormat
	// Output defaults to os.Stderr.
	Output    io.Writer
	AddSource bool

	// ServiceName and ServiceVersion are attached to every record when set.
	ServiceName    string
	ServiceVersion string

	// ContextAttrs extracts request-scoped attributes (correlation id, source)
	// for records logged with a context.
	ContextAttrs func(ctx context.Context) []slog.Attr
}

// NewLogger creates a structured logger with the given configuration.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceVersion))
	}

	return slog.New(&attributeHandler{
		handler:      handler,
		attrs:        attrs,
		contextAttrs: cfg.ContextAttrs,
	})
}

// attributeHandler adds default and context attributes to every record.
type attributeHandler struct {
	handler      slog.Handler
	attrs        []slog.Attr
	contextAttrs func(ctx context.Context) []slog.Attr
}

func (h *attributeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *attributeHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	if h.contextAttrs != nil && ctx != nil {
		r.AddAttrs(h.contextAttrs(ctx)...)
	}
	return h.handler.Handle(ctx, r)
}

func (h *attributeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attributeHandler{
		handler:      h.handler.WithAttrs(attrs),
		attrs:        h.attrs,
		contextAttrs: h.contextAttrs,
	}
}

func (h *attributeHandler) WithGroup(name string) slog.Handler {
	return &attributeHandler{
		handler:      h.handler.WithGroup(name),
		attrs:        h.attrs,
		contextAttrs: h.contextAttrs,
	}
}
