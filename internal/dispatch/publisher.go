package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"

	"audioguard/internal/alerting"
	"audioguard/internal/discord"
	"audioguard/internal/logger"
	"audioguard/pkg/logging"
	"audioguard/pkg/metrics"
	"audioguard/pkg/models"
	"audioguard/pkg/tracing"
)

type InviteConfig struct {
	ApplicationID string
	Permissions   string
}

// Publisher serves the internal actions called by the monitoring client.
type Publisher struct {
	formatter *alerting.Formatter
	deliverer Deliverer
	invite    InviteConfig
	events    *EventPublisher
	logger    logger.Logger
}

func NewPublisher(f *alerting.Formatter, d Deliverer, invite InviteConfig, events *EventPublisher, log logger.Logger) *Publisher {
	return &Publisher{formatter: f, deliverer: d, invite: invite, events: events, logger: log}
}

// SendAlert formats and delivers a live alert. A delivery failure is returned as is.
func (p *Publisher) SendAlert(ctx context.Context, req *SendAlertRequest) error {
	return p.send(ctx, string(ActionSendAlert), req.ChannelID, req.UserID, req.Alert, false)
}

// SendTestAlert delivers the canned setup alert.
func (p *Publisher) SendTestAlert(ctx context.Context, req *TestAlertRequest) error {
	return p.send(ctx, string(ActionTestAlert), req.ChannelID, req.UserID, alerting.SetupTestAlert(), true)
}

func (p *Publisher) InviteURL() (string, error) {
	return discord.InviteURL(p.invite.ApplicationID, p.invite.Permissions)
}

func (p *Publisher) send(ctx context.Context, kind, channelID, userID string, alert alerting.AlertRecord, isTest bool) error {
	start := time.Now()
	ctx = logging.WithChannelID(ctx, channelID)
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "dispatch."+kind)
	defer span.End()

	payload, err := p.formatter.FormatAlert(alert, isTest)
	if err != nil {
		metrics.IncDispatchRequest(kind, "invalid")
		return err
	}

	_, err = p.deliverer.Deliver(ctx, channelID, payload)
	p.events.publish(ctx, deliveryOutcome{
		eventType: models.EventTypeAlertDispatched,
		source:    models.SourceInternalAction,
		channelID: channelID,
		userID:    userID,
		alert:     &alert,
		isTest:    isTest,
		delivered: err == nil,
	})
	metrics.ObserveDispatchDuration(kind, time.Since(start))

	if err != nil {
		span.SetStatus(codes.Error, "delivery failed")
		metrics.IncDispatchRequest(kind, "delivery_failed")
		p.logger.ErrorwCtx(ctx, "Alert delivery failed", "action", kind, "error", err)
		return err
	}

	metrics.IncDispatchRequest(kind, "ok")
	p.logger.InfowCtx(ctx, "Alert delivered", "action", kind, "risk_level", alert.RiskLevel, "is_test", isTest)
	return nil
}
