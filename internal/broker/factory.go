package broker

import (
	"context"
	"fmt"

	"audioguard/internal/config"
	"audioguard/internal/logger"
	"audioguard/pkg/models"
)

func NewProducer(cfg config.BrokerConfig, log logger.Logger) (Producer, error) {
	switch cfg.Type {
	case "", "none":
		return NoopProducer{}, nil
	case "kafka":
		return NewKafkaProducer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}

type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, string, models.MessageEnvelope) error {
	return nil
}

func (NoopProducer) Close() error {
	return nil
}
