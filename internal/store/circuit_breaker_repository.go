package store

import (
	"context"
	"fmt"

	"audioguard/internal/config"
	"audioguard/pkg/circuitbreaker"
)

type CircuitBreakerRepository struct {
	repo ConfigStore
	cb   *circuitbreaker.Wrapper
}

// NewCircuitBreakerRepository guards repo with a breaker named after the
// backend. With the breaker disabled calls go straight through.
func NewCircuitBreakerRepository(repo ConfigStore, backend string, cfg config.CircuitBreakerConfig) *CircuitBreakerRepository {
	if !cfg.Enabled {
		return &CircuitBreakerRepository{repo: repo}
	}
	return &CircuitBreakerRepository{
		repo: repo,
		cb:   circuitbreaker.NewWrapper(circuitbreaker.FromSettings("store-"+backend, cfg)),
	}
}

func (r *CircuitBreakerRepository) ProfileByDiscordID(ctx context.Context, discordID string) (*Profile, error) {
	if r.cb == nil {
		return r.repo.ProfileByDiscordID(ctx, discordID)
	}
	p, err := circuitbreaker.Do(ctx, r.cb, func() (*Profile, error) {
		return r.repo.ProfileByDiscordID(ctx, discordID)
	})
	return p, r.annotate(err)
}

func (r *CircuitBreakerRepository) SettingsByChannelID(ctx context.Context, channelID string) (*UserSettings, error) {
	if r.cb == nil {
		return r.repo.SettingsByChannelID(ctx, channelID)
	}
	s, err := circuitbreaker.Do(ctx, r.cb, func() (*UserSettings, error) {
		return r.repo.SettingsByChannelID(ctx, channelID)
	})
	return s, r.annotate(err)
}

// Breaker returns the underlying wrapper, or nil when the breaker is disabled.
func (r *CircuitBreakerRepository) Breaker() *circuitbreaker.Wrapper {
	return r.cb
}

func (r *CircuitBreakerRepository) State() string {
	if r.cb == nil {
		return "disabled"
	}
	return r.cb.State().String()
}

func (r *CircuitBreakerRepository) annotate(err error) error {
	if err != nil && r.cb.IsOpen() {
		return fmt.Errorf("circuit breaker is open for %s: %w", r.cb.Name(), err)
	}
	return err
}
