package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"audioguard/pkg/metrics"
)

const backendPostgres = "postgres"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ProfileByDiscordID(ctx context.Context, discordID string) (*Profile, error) {
	start := time.Now()
	query := `
		SELECT discord_id, subscription_tier
		FROM profiles
		WHERE discord_id = $1
		LIMIT 1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query, discordID).Scan(&p.DiscordID, &p.SubscriptionTier)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveStoreQuery(backendPostgres, "profile", "not_found", time.Since(start))
		return nil, nil
	}
	if err != nil {
		metrics.ObserveStoreQuery(backendPostgres, "profile", "error", time.Since(start))
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	metrics.ObserveStoreQuery(backendPostgres, "profile", "found", time.Since(start))
	return &p, nil
}

func (r *PostgresRepository) SettingsByChannelID(ctx context.Context, channelID string) (*UserSettings, error) {
	start := time.Now()
	query := `
		SELECT discord_channel_id, alert_sensitivity, panic_button_enabled, auto_mute_enabled
		FROM user_settings
		WHERE discord_channel_id = $1
		LIMIT 1
	`

	var (
		s           UserSettings
		sensitivity sql.NullFloat64
		panicButton sql.NullBool
		autoMute    sql.NullBool
	)
	err := r.db.QueryRowContext(ctx, query, channelID).Scan(&s.DiscordChannelID, &sensitivity, &panicButton, &autoMute)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveStoreQuery(backendPostgres, "settings", "not_found", time.Since(start))
		return nil, nil
	}
	if err != nil {
		metrics.ObserveStoreQuery(backendPostgres, "settings", "error", time.Since(start))
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}

	if sensitivity.Valid {
		s.AlertSensitivity = &sensitivity.Float64
	}
	if panicButton.Valid {
		s.PanicButtonEnabled = &panicButton.Bool
	}
	if autoMute.Valid {
		s.AutoMuteEnabled = &autoMute.Bool
	}

	metrics.ObserveStoreQuery(backendPostgres, "settings", "found", time.Since(start))
	return &s, nil
}
