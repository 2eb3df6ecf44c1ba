package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
)

// Publisher sends serialized events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishAll serializes and publishes events after their write has been
// committed. Failures are logged and counted, never returned: the change is
// already durable and callers must not report it as failed.
func PublishAll(ctx context.Context, publisher Publisher, logger *slog.Logger, metadata domain.EventMetadata, events ...domain.DomainEvent) int {
	if logger == nil {
		logger = slog.Default()
	}

	failed := 0
	for _, event := range events {
		msg, err := NewMessage(event, metadata)
		if err != nil {
			failed++
			logger.ErrorContext(ctx, "failed to encode event",
				"routing_key", event.RoutingKey(),
				"task_id", event.AggregateID(),
				"error", err,
			)
			continue
		}

		body, err := msg.Body()
		if err == nil {
			err = publisher.Publish(ctx, msg.RoutingKey, body)
		}
		if err != nil {
			failed++
			logger.WarnContext(ctx, "event not published",
				"routing_key", msg.RoutingKey,
				"task_id", msg.AggregateID,
				"error", err,
			)
		}
	}
	return failed
}

// NoopPublisher drops every message. Used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
