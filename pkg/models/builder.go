package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageEnvelopeBuilder struct {
	envelope *MessageEnvelope
}

func NewMessageEnvelopeBuilder(eventType string) *MessageEnvelopeBuilder {
	return &MessageEnvelopeBuilder{
		envelope: &MessageEnvelope{
			Type:    eventType,
			Payload: make(map[string]interface{}),
		},
	}
}

func (b *MessageEnvelopeBuilder) WithID(id string) *MessageEnvelopeBuilder {
	b.envelope.ID = id
	return b
}

func (b *MessageEnvelopeBuilder) WithSource(source string) *MessageEnvelopeBuilder {
	b.envelope.Source = source
	return b
}

func (b *MessageEnvelopeBuilder) WithTimestamp(ts time.Time) *MessageEnvelopeBuilder {
	b.envelope.Timestamp = ts
	return b
}

func (b *MessageEnvelopeBuilder) WithField(name string, value interface{}) *MessageEnvelopeBuilder {
	b.envelope.SetPayloadField(name, value)
	return b
}

func (b *MessageEnvelopeBuilder) WithRequestID(id string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.RequestID = id
	return b
}

func (b *MessageEnvelopeBuilder) WithInteractionID(id string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.InteractionID = id
	return b
}

func (b *MessageEnvelopeBuilder) WithTraceID(id string) *MessageEnvelopeBuilder {
	b.envelope.Metadata.TraceID = id
	return b
}

// Build fills a random ID and the current time when they were not set.
func (b *MessageEnvelopeBuilder) Build() *MessageEnvelope {
	if b.envelope.ID == "" {
		b.envelope.ID = uuid.NewString()
	}
	if b.envelope.Timestamp.IsZero() {
		b.envelope.Timestamp = time.Now().UTC()
	}
	return b.envelope
}
