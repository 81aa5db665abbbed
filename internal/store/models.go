package store

import (
	"context"

	"audioguard/internal/alerting"
)

const (
	TierFree    = "free"
	TierPro     = "pro"
	TierPremium = "premium"
)

// Profile is the account row linked to a Discord user.
type Profile struct {
	DiscordID        string `json:"discord_id" bson:"discord_id"`
	SubscriptionTier string `json:"subscription_tier" bson:"subscription_tier"`
}

// UserSettings is the per-channel alert configuration. Nil fields were never set.
type UserSettings struct {
	DiscordChannelID   string   `json:"discord_channel_id" bson:"discord_channel_id"`
	AlertSensitivity   *float64 `json:"alert_sensitivity" bson:"alert_sensitivity,omitempty"`
	PanicButtonEnabled *bool    `json:"panic_button_enabled" bson:"panic_button_enabled,omitempty"`
	AutoMuteEnabled    *bool    `json:"auto_mute_enabled" bson:"auto_mute_enabled,omitempty"`
}

// ConfigStore reads per-user and per-channel configuration. A missing row
// is reported as (nil, nil), never as an error.
type ConfigStore interface {
	ProfileByDiscordID(ctx context.Context, discordID string) (*Profile, error)
	SettingsByChannelID(ctx context.Context, channelID string) (*UserSettings, error)
}

// StatusView maps an optional profile onto the status rendering.
func StatusView(p *Profile) alerting.StatusView {
	if p == nil {
		return alerting.StatusView{}
	}
	return alerting.StatusView{Connected: true, Tier: p.SubscriptionTier}
}

func SettingsView(s *UserSettings) alerting.SettingsView {
	if s == nil {
		return alerting.SettingsView{}
	}
	return alerting.SettingsView{
		AlertSensitivity:   s.AlertSensitivity,
		PanicButtonEnabled: s.PanicButtonEnabled,
		AutoMuteEnabled:    s.AutoMuteEnabled,
	}
}

// NoopStore backs deployments without a configuration database.
type NoopStore struct{}

func (NoopStore) ProfileByDiscordID(context.Context, string) (*Profile, error) {
	return nil, nil
}

func (NoopStore) SettingsByChannelID(context.Context, string) (*UserSettings, error) {
	return nil, nil
}
