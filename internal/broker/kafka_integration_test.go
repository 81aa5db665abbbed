//go:build integration

package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"

	"audioguard/internal/config"
	"audioguard/internal/logger"
	"audioguard/pkg/models"
)

func TestKafkaProducer_Publish_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkamodule.WithClusterID("audioguard-test"),
	)
	require.NoError(t, err, "failed to start kafka container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	const topic = "audioguard.dispatch.test"
	producer := NewKafkaProducer(config.KafkaConfig{Brokers: brokers, EventsTopic: topic}, logger.NopLogger())
	defer producer.Close()

	env := models.NewMessageEnvelopeBuilder(models.EventTypeAlertDispatched).
		WithSource(models.SourceInternalAction).
		WithField("channel_id", "123").
		WithField("delivered", true).
		Build()

	publishCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	require.Eventually(t, func() bool {
		return producer.Publish(publishCtx, topic, *env) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, Partition: 0})
	defer reader.Close()

	readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
	defer cancelRead()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	assert.Equal(t, env.ID, string(msg.Key))
	var got models.MessageEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, models.EventTypeAlertDispatched, got.Type)
	assert.Equal(t, "123", got.Payload["channel_id"])
}
