package discord

import (
	"context"
	"errors"
	"net/http"

	"audioguard/pkg/circuitbreaker"
	pkgerrors "audioguard/pkg/errors"
)

// NewBreaker builds the breaker shared by every delivery. Only failures that
// say Discord itself is unhealthy count toward tripping it, so one bad
// channel id or missing permission cannot block delivery to other channels.
func NewBreaker(cfg circuitbreaker.Config) *circuitbreaker.Wrapper {
	cfg.IsSuccessful = isHealthyOutcome
	return circuitbreaker.NewWrapper(cfg)
}

// isHealthyOutcome treats caller cancellation and 4xx rejections other
// than 429 as healthy responses from Discord.
func isHealthyOutcome(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	status, ok := appErr.Details["status"].(int)
	if !ok {
		return false
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}
