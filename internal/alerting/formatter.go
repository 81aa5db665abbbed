package alerting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	defaultProductName = "AudioGuard"

	panicQuickActions = "• Mute your OBS audio source\n• Check what music is playing\n• Consider ending the stream if needed"
	panicDescription  = "**IMMEDIATE ACTION REQUIRED**\n\nMute your stream audio NOW to avoid DMCA issues!"

	liveDescription = "Potential copyrighted content detected in your stream!"
	testDescription = "This is a test alert to verify your setup."

	notConfigured = "Not configured"
)

type riskStyle struct {
	color          Color
	emoji          string
	recommendation string
}

var riskStyles = map[RiskLevel]riskStyle{
	RiskLow: {
		color:          ColorGreen,
		emoji:          "🟢",
		recommendation: "📝 **INFO**: Low risk, but stay aware",
	},
	RiskMedium: {
		color:          ColorYellow,
		emoji:          "🟡",
		recommendation: "⚠️ **CAUTION**: Monitor closely, prepare to mute",
	},
	RiskHigh: {
		color:          ColorOrange,
		emoji:          "🟠",
		recommendation: "⚡ **URGENT**: Consider muting or changing audio source",
	},
	RiskCritical: {
		color:          ColorRed,
		emoji:          "🔴",
		recommendation: "🚨 **IMMEDIATE ACTION**: Mute stream audio now!",
	},
}

// ColorFor returns the embed color of a risk level.
func ColorFor(r RiskLevel) (Color, error) {
	style, ok := riskStyles[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRiskLevel, r)
	}
	return style.color, nil
}

// Recommendation returns the recommended-action text of a risk level.
func Recommendation(r RiskLevel) (string, error) {
	style, ok := riskStyles[r]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskLevel, r)
	}
	return style.recommendation, nil
}

// FormatPercent renders a ratio as a whole percentage, rounding half up.
// The tolerance absorbs binary representation error, so 0.955 renders 96%.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%d%%", int64(math.Floor(ratio*100+0.5+1e-9)))
}

type Formatter struct {
	now         func() time.Time
	productName string
	settingsURL string
}

type FormatterOption func(*Formatter)

func WithClock(now func() time.Time) FormatterOption {
	return func(f *Formatter) {
		f.now = now
	}
}

func WithProductName(name string) FormatterOption {
	return func(f *Formatter) {
		if name != "" {
			f.productName = name
		}
	}
}

func WithSettingsURL(url string) FormatterOption {
	return func(f *Formatter) {
		f.settingsURL = url
	}
}

func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		now:         time.Now,
		productName: defaultProductName,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatAlert renders a detection alert. It fails only for records that
// violate the AlertRecord contract.
func (f *Formatter) FormatAlert(alert AlertRecord, isTest bool) (NotificationPayload, error) {
	if err := alert.Validate(); err != nil {
		return NotificationPayload{}, err
	}
	style := riskStyles[alert.RiskLevel]

	title := style.emoji + " DMCA Risk Detected"
	description := liveDescription
	if isTest {
		title = "🧪 TEST ALERT: " + title
		description = testDescription
	}

	return NotificationPayload{
		Title:       title,
		Description: description,
		Color:       style.color,
		Fields:      alertFields(alert, style),
		Timestamp:   f.now().UTC(),
		Footer:      f.footer(isTest),
	}, nil
}

// FormatPanic renders the panic button alert.
func (f *Formatter) FormatPanic() NotificationPayload {
	alert := PanicAlert()
	style := riskStyles[alert.RiskLevel]

	fields := alertFields(alert, style)
	fields = append(fields, Field{Name: "⚡ Quick Actions", Value: panicQuickActions})

	return NotificationPayload{
		Title:       "🚨 " + alert.Title,
		Description: panicDescription,
		Color:       style.color,
		Fields:      fields,
		Timestamp:   f.now().UTC(),
		Footer:      f.footer(false),
	}
}

func (f *Formatter) FormatStatus(view StatusView) NotificationPayload {
	protection, setup := "❌ Not Connected", "Pending"
	if view.Connected {
		protection, setup = "✅ Active", "Complete"
	}

	tier := strings.ToUpper(strings.TrimSpace(view.Tier))
	if tier == "" {
		tier = "FREE"
	}

	return NotificationPayload{
		Title: "🛡️ " + f.productName + " Status",
		Color: ColorGreen,
		Fields: []Field{
			{Name: "📡 Protection Status", Value: protection, Inline: true},
			{Name: "📊 Tier", Value: tier, Inline: true},
			{Name: "🔧 Setup", Value: setup, Inline: true},
		},
		Timestamp: f.now().UTC(),
		Footer:    f.footer(false),
	}
}

func (f *Formatter) FormatSettings(view SettingsView) NotificationPayload {
	sensitivity := notConfigured
	// A stored sensitivity of 0 means the user never set one.
	if view.AlertSensitivity != nil && *view.AlertSensitivity != 0 {
		sensitivity = FormatPercent(*view.AlertSensitivity)
	}

	var description string
	if f.settingsURL != "" {
		description = fmt.Sprintf("Configure your settings at [%s Dashboard](%s)", f.productName, f.settingsURL)
	}

	return NotificationPayload{
		Title:       "⚙️ " + f.productName + " Settings",
		Description: description,
		Color:       ColorBlue,
		Fields: []Field{
			{Name: "🎯 Alert Sensitivity", Value: sensitivity, Inline: true},
			{Name: "🚨 Panic Button", Value: toggle(view.PanicButtonEnabled, "❌ Disabled"), Inline: true},
			{Name: "🔇 Auto-Mute", Value: toggle(view.AutoMuteEnabled, "❌ Disabled (Pro)"), Inline: true},
		},
		Timestamp: f.now().UTC(),
		Footer:    f.footer(false),
	}
}

func (f *Formatter) footer(isTest bool) string {
	if isTest {
		return f.productName + " Test System"
	}
	return f.productName + " Protection System"
}

func alertFields(alert AlertRecord, style riskStyle) []Field {
	return []Field{
		{Name: "🎵 Track", Value: fmt.Sprintf("**%s**\nby %s", alert.Title, alert.Artist), Inline: true},
		{Name: "⚠️ Risk Level", Value: fmt.Sprintf("**%s**", strings.ToUpper(string(alert.RiskLevel))), Inline: true},
		{Name: "📊 Confidence", Value: FormatPercent(alert.Confidence), Inline: true},
		{Name: "🎯 Recommended Action", Value: style.recommendation},
	}
}

func toggle(v *bool, disabled string) string {
	switch {
	case v == nil:
		return notConfigured
	case *v:
		return "✅ Enabled"
	default:
		return disabled
	}
}
