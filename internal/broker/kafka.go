package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"audioguard/internal/config"
	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/metrics"
	"audioguard/pkg/models"
	"audioguard/pkg/tracing"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, logger: log}
}

// Publish writes msg keyed by its ID with the trace context in the headers.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error {
	if err := models.ValidateMessageEnvelope(&msg); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(msg.Type)}}
	headers = tracing.InjectTraceContext(ctx, headers)

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(msg.ID),
		Value:   body,
		Headers: headers,
		Time:    msg.Timestamp,
	})
	metrics.ObserveKafkaWriteDuration(constants.ServiceName, topic, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncKafkaMessagesWritten(constants.ServiceName, topic)
	metrics.ObserveKafkaMessageSize(constants.ServiceName, topic, len(body))
	p.logger.DebugwCtx(ctx, "Published dispatch event", "topic", topic, "event_id", msg.ID, "event_type", msg.Type)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
