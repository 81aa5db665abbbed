package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"audioguard/internal/alerting"
	"audioguard/internal/config"
	"audioguard/internal/constants"
	"audioguard/internal/logger"
	"audioguard/pkg/circuitbreaker"
	pkgerrors "audioguard/pkg/errors"
	"audioguard/pkg/metrics"
)

// Client posts notifications to Discord channels. Each Deliver call makes
// at most one HTTP request; there is no retry or queue.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *circuitbreaker.Wrapper
	logger  logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithCircuitBreaker(w *circuitbreaker.Wrapper) Option {
	return func(c *Client) {
		c.breaker = w
	}
}

func NewClient(cfg config.DiscordConfig, log logger.Logger, opts ...Option) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 || timeout > constants.MaxDeliveryTimeout {
		timeout = constants.DefaultDeliveryTimeout
	}
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultDiscordAPIBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		token:   cfg.BotToken,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deliver renders payload as a single embed and posts it to channelID.
// Any failure, including a timeout or an open breaker, is reported as
// ErrDeliveryFailed with the response body attached when there is one.
func (c *Client) Deliver(ctx context.Context, channelID string, payload alerting.NotificationPayload) (*Message, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, pkgerrors.ErrDeliveryFailed.WithDetail("reason", "missing channel id")
	}

	start := time.Now()
	var (
		msg *Message
		err error
	)
	if c.breaker != nil {
		msg, err = circuitbreaker.Do(ctx, c.breaker, func() (*Message, error) {
			return c.post(ctx, channelID, payload)
		})
		if err != nil && !pkgerrors.IsDeliveryFailed(err) {
			err = pkgerrors.Wrap(err, pkgerrors.ErrDeliveryFailed)
		}
	} else {
		msg, err = c.post(ctx, channelID, payload)
	}

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.ObserveDiscordDelivery(status, time.Since(start))
	return msg, err
}

func (c *Client) post(ctx context.Context, channelID string, payload alerting.NotificationPayload) (*Message, error) {
	body, err := json.Marshal(CreateMessageRequest{Embeds: []Embed{EmbedFromPayload(payload)}})
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDeliveryFailed)
	}

	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, url.PathEscape(channelID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrDeliveryFailed)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		deliveryErr := pkgerrors.Wrap(scrubURLError(err), pkgerrors.ErrDeliveryFailed)
		if isTimeout(err) {
			deliveryErr = deliveryErr.WithDetail("timeout", true)
		}
		c.logger.WarnwCtx(ctx, "Discord request failed", "channel_id", channelID, "error", deliveryErr.Cause)
		return nil, deliveryErr
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, constants.MaxDiscordErrorBodyBytes))

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		c.logger.WarnwCtx(ctx, "Discord rejected message",
			"channel_id", channelID,
			"status", resp.StatusCode,
			"response_body", string(respBody),
		)
		return nil, pkgerrors.ErrDeliveryFailed.
			WithCause(fmt.Errorf("discord returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode).
			WithDetail("response_body", string(respBody))
	}

	msg := &Message{Raw: json.RawMessage(respBody)}
	if err := json.Unmarshal(respBody, msg); err != nil {
		c.logger.DebugwCtx(ctx, "Discord acknowledgement was not JSON", "channel_id", channelID)
	}
	return msg, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// scrubURLError drops the request URL from transport errors so the
// error text only names the failing operation.
func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
