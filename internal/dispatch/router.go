package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"audioguard/internal/alerting"
	"audioguard/internal/constants"
	"audioguard/internal/discord"
	"audioguard/internal/logger"
	"audioguard/internal/store"
	"audioguard/pkg/logging"
	"audioguard/pkg/metrics"
	"audioguard/pkg/models"
	"audioguard/pkg/tracing"
)

const tracerName = "audioguard/dispatch"

const (
	CommandPanic     = "panic"
	CommandStatus    = "status"
	CommandSettings  = "settings"
	CommandTestAlert = "test-alert"
)

const (
	ackPanic     = "🚨 Panic alert sent! Check your stream immediately."
	ackStatus    = "Status check complete!"
	ackSettings  = "Settings displayed!"
	ackTestAlert = "🧪 Test alert sent!"
	ackUnknown   = "Unknown command!"
)

type ResponseType int

const (
	ResponsePong                     ResponseType = 1
	ResponseChannelMessageWithSource ResponseType = 4
)

// FlagEphemeral makes a response visible only to the invoking user.
const FlagEphemeral = 64

// Deliverer posts one payload to one channel. *discord.Client implements it.
type Deliverer interface {
	Deliver(ctx context.Context, channelID string, payload alerting.NotificationPayload) (*discord.Message, error)
}

type InteractionResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags"`
}

// InteractionResponse is the synchronous reply to an interaction.
type InteractionResponse struct {
	Type ResponseType             `json:"type"`
	Data *InteractionResponseData `json:"data,omitempty"`
}

func pong() InteractionResponse {
	return InteractionResponse{Type: ResponsePong}
}

func ack(content string) InteractionResponse {
	return InteractionResponse{
		Type: ResponseChannelMessageWithSource,
		Data: &InteractionResponseData{Content: content, Flags: FlagEphemeral},
	}
}

// Router answers Discord interactions. Every call returns exactly one
// response and makes at most one delivery, whatever the delivery outcome.
type Router struct {
	formatter *alerting.Formatter
	deliverer Deliverer
	store     store.ConfigStore
	picker    alerting.Picker
	catalog   alerting.Catalog
	events    *EventPublisher
	logger    logger.Logger

	storeTimeout time.Duration
}

type RouterOption func(*Router)

func WithPicker(p alerting.Picker) RouterOption {
	return func(r *Router) {
		r.picker = p
	}
}

func WithEvents(e *EventPublisher) RouterOption {
	return func(r *Router) {
		r.events = e
	}
}

// WithStoreTimeout bounds each settings store lookup made while answering
// an interaction.
func WithStoreTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.storeTimeout = d
	}
}

func NewRouter(f *alerting.Formatter, d Deliverer, s store.ConfigStore, log logger.Logger, opts ...RouterOption) *Router {
	if s == nil {
		s = store.NoopStore{}
	}
	r := &Router{
		formatter: f,
		deliverer: d,
		store:     s,
		picker:    alerting.DefaultPicker(),
		catalog:   alerting.CommandDemoCatalog(),
		logger:    log,

		storeTimeout: constants.StoreQueryTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Route(ctx context.Context, in *Interaction) InteractionResponse {
	start := time.Now()
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "dispatch.route_interaction")
	defer span.End()
	if in.ID != "" {
		ctx = logging.WithInteractionID(ctx, in.ID)
	}
	if in.ChannelID != "" {
		ctx = logging.WithChannelID(ctx, in.ChannelID)
	}

	if in.Type == InteractionPing {
		metrics.IncDispatchRequest("ping", "ok")
		metrics.ObserveDispatchDuration("ping", time.Since(start))
		return pong()
	}

	name := in.CommandName()
	span.SetAttributes(attribute.String("dispatch.command", name))
	r.logger.InfowCtx(ctx, "Handling slash command", "command", name, "user_id", in.InvokingUserID())

	var (
		resp    InteractionResponse
		outcome = "ok"
	)
	switch name {
	case CommandPanic:
		resp, outcome = r.handlePanic(ctx, in)
	case CommandStatus:
		resp, outcome = r.handleStatus(ctx, in)
	case CommandSettings:
		resp, outcome = r.handleSettings(ctx, in)
	case CommandTestAlert:
		resp, outcome = r.handleTestAlert(ctx, in)
	default:
		r.logger.InfowCtx(ctx, "Unknown command", "command", name)
		name, outcome = "unknown", "ignored"
		resp = ack(ackUnknown)
	}

	metrics.IncDispatchRequest("command_"+name, outcome)
	metrics.ObserveDispatchDuration("command_"+name, time.Since(start))
	return resp
}

// The panic ack text is unconditional even when delivery fails.
func (r *Router) handlePanic(ctx context.Context, in *Interaction) (InteractionResponse, string) {
	alert := alerting.PanicAlert()
	outcome := r.deliver(ctx, in, CommandPanic, r.formatter.FormatPanic(), &alert, false)
	return ack(ackPanic), outcome
}

func (r *Router) handleStatus(ctx context.Context, in *Interaction) (InteractionResponse, string) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	profile, err := r.store.ProfileByDiscordID(lookupCtx, in.InvokingUserID())
	cancel()
	if err != nil {
		r.logger.ErrorwCtx(ctx, "Profile lookup failed, rendering as not connected", "error", err)
		profile = nil
	}
	outcome := r.deliver(ctx, in, CommandStatus, r.formatter.FormatStatus(store.StatusView(profile)), nil, false)
	return ack(ackStatus), outcome
}

func (r *Router) handleSettings(ctx context.Context, in *Interaction) (InteractionResponse, string) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	settings, err := r.store.SettingsByChannelID(lookupCtx, in.ChannelID)
	cancel()
	if err != nil {
		r.logger.ErrorwCtx(ctx, "Settings lookup failed, rendering as not configured", "error", err)
		settings = nil
	}
	outcome := r.deliver(ctx, in, CommandSettings, r.formatter.FormatSettings(store.SettingsView(settings)), nil, false)
	return ack(ackSettings), outcome
}

func (r *Router) handleTestAlert(ctx context.Context, in *Interaction) (InteractionResponse, string) {
	alert := r.catalog.Pick(r.picker)
	payload, err := r.formatter.FormatAlert(alert, true)
	if err != nil {
		r.logger.ErrorwCtx(ctx, "Demo alert could not be formatted", "error", err)
		return ack(ackTestAlert), "format_failed"
	}
	outcome := r.deliver(ctx, in, CommandTestAlert, payload, &alert, true)
	return ack(ackTestAlert), outcome
}

func (r *Router) deliver(ctx context.Context, in *Interaction, command string, payload alerting.NotificationPayload, alert *alerting.AlertRecord, isTest bool) string {
	_, err := r.deliverer.Deliver(ctx, in.ChannelID, payload)
	if err != nil {
		r.logger.ErrorwCtx(ctx, "Discord delivery failed", "command", command, "error", err)
	}

	r.events.publish(ctx, deliveryOutcome{
		eventType: models.EventTypeCommandHandled,
		source:    models.SourceInteraction,
		channelID: in.ChannelID,
		userID:    in.InvokingUserID(),
		command:   command,
		alert:     alert,
		isTest:    isTest,
		delivered: err == nil,
	})

	if err != nil {
		return "delivery_failed"
	}
	return "ok"
}
