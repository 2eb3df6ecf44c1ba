package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/google/uuid"
)

type (
	correlationKey struct{}
	sourceKey      struct{}
)

// WithCorrelationID stores a request correlation id in ctx.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFromContext returns the correlation id in ctx, or uuid.Nil.
func CorrelationIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(correlationKey{}).(uuid.UUID)
	return id
}

// WithSource records which surface (api, cli, mcp) is driving the request.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFromContext returns the source in ctx, or "unknown".
func SourceFromContext(ctx context.Context) string {
	if source, ok := ctx.Value(sourceKey{}).(string); ok && source != "" {
		return source
	}
	return "unknown"
}

// LogAttrs returns the correlation id and source in ctx as log attributes.
// It plugs into observability.LogConfig.ContextAttrs.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if id := CorrelationIDFromContext(ctx); id != uuid.Nil {
		attrs = append(attrs, slog.String("correlation_id", id.String()))
	}
	if source, ok := ctx.Value(sourceKey{}).(string); ok && source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return attrs
}

// NewEventMetadata builds event metadata from the request context. A fresh
// correlation id is generated when ctx carries none.
func NewEventMetadata(ctx context.Context) domain.EventMetadata {
	correlationID := CorrelationIDFromContext(ctx)
	if correlationID == uuid.Nil {
		correlationID = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlationID,
		Source:        SourceFromContext(ctx),
	}
}
