package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_FillsDefaults(t *testing.T) {
	env := NewMessageEnvelopeBuilder(EventTypeAlertDispatched).
		WithSource(SourceInternalAction).
		WithField("channel_id", "123").
		WithRequestID("req-1").
		Build()

	assert.NotEmpty(t, env.ID)
	assert.False(t, env.Timestamp.IsZero())
	assert.Equal(t, "req-1", env.Metadata.RequestID)
	v, ok := env.GetPayloadField("channel_id")
	require.True(t, ok)
	assert.Equal(t, "123", v)
	assert.NoError(t, ValidateMessageEnvelope(env))
}

func TestValidateMessageEnvelope(t *testing.T) {
	var nilEnv *MessageEnvelope
	assert.Error(t, ValidateMessageEnvelope(nilEnv))

	err := ValidateMessageEnvelope(&MessageEnvelope{ID: "x", Source: "s", Timestamp: time.Now(), Payload: map[string]interface{}{}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "type", vErr.Field)
}
