package dispatch

import (
	"context"
	"sync"

	"audioguard/internal/alerting"
	"audioguard/internal/broker"
	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/logging"
	"audioguard/pkg/models"
	"audioguard/pkg/tracing"
)

// EventPublisher reports delivery outcomes to the broker. Publishing runs
// in the background and never affects the HTTP response or triggers
// another chat message.
type EventPublisher struct {
	producer broker.Producer
	topic    string
	logger   logger.Logger
	wg       sync.WaitGroup
}

func NewEventPublisher(producer broker.Producer, topic string, log logger.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic, logger: log}
}

type deliveryOutcome struct {
	eventType string
	source    string
	channelID string
	userID    string
	command   string
	alert     *alerting.AlertRecord
	isTest    bool
	delivered bool
}

func (e *EventPublisher) publish(ctx context.Context, o deliveryOutcome) {
	if e == nil || e.producer == nil {
		return
	}

	b := models.NewMessageEnvelopeBuilder(o.eventType).
		WithSource(o.source).
		WithRequestID(logging.GetRequestID(ctx)).
		WithInteractionID(logging.GetInteractionID(ctx)).
		WithTraceID(tracing.TraceID(ctx)).
		WithField("channel_id", o.channelID).
		WithField("delivered", o.delivered).
		WithField("is_test", o.isTest)
	if o.userID != "" {
		b.WithField("user_id", o.userID)
	}
	if o.command != "" {
		b.WithField("command", o.command)
	}
	if o.alert != nil {
		b.WithField("title", o.alert.Title).
			WithField("artist", o.alert.Artist).
			WithField("risk_level", string(o.alert.RiskLevel)).
			WithField("confidence", o.alert.Confidence)
	}
	env := b.Build()

	// Detach from the request so the write outlives the response.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.KafkaWriteTimeout)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		if err := e.producer.Publish(pubCtx, e.topic, *env); err != nil {
			e.logger.WarnwCtx(pubCtx, "Failed to publish dispatch event",
				"event_type", env.Type,
				"event_id", env.ID,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight publishes finish or ctx is done.
func (e *EventPublisher) Wait(ctx context.Context) error {
	if e == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
