package bootstrap

import (
	"context"
	"fmt"

	"audioguard/internal/broker"
	"audioguard/internal/config"
	"audioguard/internal/logger"
)

type Base struct {
	Config   *config.Config
	Logger   logger.Logger
	Producer broker.Producer
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

// InitBroker creates the dispatch event producer. With no broker configured
// the producer discards events.
func (b *Base) InitBroker() error {
	producer, err := broker.NewProducer(b.Config.Broker, b.Logger)
	if err != nil {
		return fmt.Errorf("failed to create producer: %w", err)
	}
	b.Producer = producer
	return nil
}

func (b *Base) ShutdownBroker() []error {
	if b.Producer == nil {
		return nil
	}
	if err := b.Producer.Close(); err != nil {
		return []error{fmt.Errorf("producer close error: %w", err)}
	}
	return nil
}

// Shutdown runs additionalShutdown before closing the broker so in-flight
// events can still be written.
func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) []error) error {
	b.Logger.InfowCtx(ctx, "Shutting down application...")

	var errs []error
	if additionalShutdown != nil {
		errs = append(errs, additionalShutdown(ctx)...)
	}
	errs = append(errs, b.ShutdownBroker()...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	b.Logger.InfowCtx(ctx, "Application exited successfully")
	return nil
}
