package broker

import (
	"context"

	"audioguard/pkg/models"
)

// Producer publishes dispatch events. Publishing is fire-and-report:
// callers log a failure and carry on.
type Producer interface {
	Publish(ctx context.Context, topic string, msg models.MessageEnvelope) error
	Close() error
}
