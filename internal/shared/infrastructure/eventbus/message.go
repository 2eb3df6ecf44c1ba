package eventbus

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is the wire envelope for a domain event.
type Message struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Metadata      MessageMetadata `json:"metadata"`
	Payload       json.RawMessage `json:"payload"`
}

type MessageMetadata struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
	Source        string    `json:"source,omitempty"`
}

// NewMessage wraps event in an envelope. Explicit metadata takes precedence
// over whatever the event already carries.
func NewMessage(event domain.DomainEvent, metadata domain.EventMetadata) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	if metadata.CorrelationID == uuid.Nil {
		metadata = event.Metadata()
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Metadata: MessageMetadata{
			CorrelationID: metadata.CorrelationID,
			Source:        metadata.Source,
		},
		Payload: payload,
	}, nil
}

// Body encodes the envelope as JSON.
func (m *Message) Body() ([]byte, error) {
	return json.Marshal(m)
}
