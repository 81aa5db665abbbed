package alerting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ParseRiskLevel accepts any letter case and surrounding whitespace.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskLevel, s)
	}
	return r, nil
}

// AlertRecord is a single detection event. Values are copied, never shared.
type AlertRecord struct {
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Confidence float64   `json:"confidence"`
}

func NewAlertRecord(title, artist string, risk RiskLevel, confidence float64) (AlertRecord, error) {
	a := AlertRecord{Title: title, Artist: artist, RiskLevel: risk, Confidence: confidence}
	if err := a.Validate(); err != nil {
		return AlertRecord{}, err
	}
	return a, nil
}

func (a AlertRecord) Validate() error {
	if !a.RiskLevel.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRiskLevel, a.RiskLevel)
	}
	if math.IsNaN(a.Confidence) || a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrConfidenceOutOfRange, a.Confidence)
	}
	return nil
}

type Color int

const (
	ColorGreen  Color = 0x00FF00
	ColorYellow Color = 0xFFFF00
	ColorOrange Color = 0xFF8000
	ColorRed    Color = 0xFF0000
	ColorBlue   Color = 0x0099FF
)

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// NotificationPayload is the transport-neutral rendering of a chat message.
// Formatter output is never mutated afterwards; Fields is owned by the payload.
type NotificationPayload struct {
	Title       string
	Description string
	Color       Color
	Fields      []Field
	Timestamp   time.Time
	Footer      string
}

// StatusView is what the status command knows about the invoking user.
type StatusView struct {
	Connected bool
	Tier      string
}

// SettingsView mirrors the nullable per-channel settings row.
type SettingsView struct {
	AlertSensitivity   *float64
	PanicButtonEnabled *bool
	AutoMuteEnabled    *bool
}
