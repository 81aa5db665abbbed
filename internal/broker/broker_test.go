package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioguard/internal/config"
	"audioguard/internal/logger"
	"audioguard/pkg/models"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(config.BrokerConfig{Type: "none"}, logger.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, NoopProducer{}, p)
	assert.NoError(t, p.Publish(context.Background(), "topic", models.MessageEnvelope{}))

	p, err = NewProducer(config.BrokerConfig{Type: "kafka", Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}}}, logger.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, &KafkaProducer{}, p)
	assert.NoError(t, p.Close())

	_, err = NewProducer(config.BrokerConfig{Type: "rabbitmq"}, logger.NopLogger())
	assert.Error(t, err)
}

func TestKafkaProducer_RejectsInvalidEnvelope(t *testing.T) {
	p := NewKafkaProducer(config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}}, logger.NopLogger())
	defer p.Close()

	err := p.Publish(context.Background(), "audioguard.dispatch", models.MessageEnvelope{ID: "x"})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "type", vErr.Field)
}
