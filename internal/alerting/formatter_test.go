package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestFormatter(opts ...FormatterOption) *Formatter {
	opts = append([]FormatterOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewFormatter(opts...)
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		risk RiskLevel
		want Color
	}{
		{RiskLow, 0x00FF00},
		{RiskMedium, 0xFFFF00},
		{RiskHigh, 0xFF8000},
		{RiskCritical, 0xFF0000},
	}
	for _, tt := range tests {
		t.Run(string(tt.risk), func(t *testing.T) {
			got, err := ColorFor(tt.risk)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ColorFor("extreme")
	assert.ErrorIs(t, err, ErrUnknownRiskLevel)
}

func TestRecommendation(t *testing.T) {
	got, err := Recommendation(RiskCritical)
	require.NoError(t, err)
	assert.Equal(t, "🚨 **IMMEDIATE ACTION**: Mute stream audio now!", got)

	got, err = Recommendation(RiskLow)
	require.NoError(t, err)
	assert.Equal(t, "📝 **INFO**: Low risk, but stay aware", got)

	_, err = Recommendation("")
	assert.ErrorIs(t, err, ErrUnknownRiskLevel)
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{0.004, "0%"},
		{0.005, "1%"},
		{0.82, "82%"},
		{0.85, "85%"},
		{0.953, "95%"},
		{0.955, "96%"},
		{0.995, "100%"},
		{1, "100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.in), "FormatPercent(%v)", tt.in)
	}
}

func TestFormatAlert_Live(t *testing.T) {
	f := newTestFormatter()
	p, err := f.FormatAlert(AlertRecord{Title: "Shape of You", Artist: "Ed Sheeran", RiskLevel: RiskHigh, Confidence: 0.95}, false)
	require.NoError(t, err)

	assert.Equal(t, "🟠 DMCA Risk Detected", p.Title)
	assert.Equal(t, "Potential copyrighted content detected in your stream!", p.Description)
	assert.Equal(t, ColorOrange, p.Color)
	assert.Equal(t, "AudioGuard Protection System", p.Footer)
	assert.Equal(t, fixedNow, p.Timestamp)

	require.Len(t, p.Fields, 4)
	assert.Equal(t, Field{Name: "🎵 Track", Value: "**Shape of You**\nby Ed Sheeran", Inline: true}, p.Fields[0])
	assert.Equal(t, Field{Name: "⚠️ Risk Level", Value: "**HIGH**", Inline: true}, p.Fields[1])
	assert.Equal(t, Field{Name: "📊 Confidence", Value: "95%", Inline: true}, p.Fields[2])
	assert.Equal(t, "🎯 Recommended Action", p.Fields[3].Name)
	assert.Equal(t, "⚡ **URGENT**: Consider muting or changing audio source", p.Fields[3].Value)
	assert.False(t, p.Fields[3].Inline)
}

func TestFormatAlert_Test(t *testing.T) {
	f := newTestFormatter()
	p, err := f.FormatAlert(SetupTestAlert(), true)
	require.NoError(t, err)

	assert.Equal(t, "🧪 TEST ALERT: 🟡 DMCA Risk Detected", p.Title)
	assert.Equal(t, "This is a test alert to verify your setup.", p.Description)
	assert.Equal(t, "AudioGuard Test System", p.Footer)
	assert.Equal(t, "85%", p.Fields[2].Value)
}

func TestFormatAlert_RejectsInvalidRecords(t *testing.T) {
	f := newTestFormatter()

	_, err := f.FormatAlert(AlertRecord{Title: "x", Artist: "y", RiskLevel: "extreme", Confidence: 0.5}, false)
	assert.ErrorIs(t, err, ErrUnknownRiskLevel)

	_, err = f.FormatAlert(AlertRecord{Title: "x", Artist: "y", RiskLevel: RiskLow, Confidence: 1.2}, false)
	assert.ErrorIs(t, err, ErrConfidenceOutOfRange)
}

func TestFormatAlert_DeterministicApartFromTimestamp(t *testing.T) {
	ticks := []time.Time{fixedNow, fixedNow.Add(time.Minute)}
	i := 0
	f := NewFormatter(WithClock(func() time.Time {
		now := ticks[i]
		i++
		return now
	}))
	alert := AlertRecord{Title: "Blinding Lights", Artist: "The Weeknd", RiskLevel: RiskCritical, Confidence: 0.98}

	a, err := f.FormatAlert(alert, false)
	require.NoError(t, err)
	b, err := f.FormatAlert(alert, false)
	require.NoError(t, err)

	assert.NotEqual(t, a.Timestamp, b.Timestamp)
	b.Timestamp = a.Timestamp
	assert.Equal(t, a, b)
}

func TestFormatPanic(t *testing.T) {
	p := newTestFormatter().FormatPanic()

	assert.Equal(t, "🚨 PANIC BUTTON ACTIVATED", p.Title)
	assert.Equal(t, ColorRed, p.Color)
	assert.Contains(t, p.Description, "IMMEDIATE ACTION REQUIRED")
	require.Len(t, p.Fields, 5)
	assert.Equal(t, "**CRITICAL**", p.Fields[1].Value)
	assert.Equal(t, "100%", p.Fields[2].Value)
	assert.Equal(t, "⚡ Quick Actions", p.Fields[4].Name)
	assert.Equal(t, "AudioGuard Protection System", p.Footer)
}

func TestFormatStatus(t *testing.T) {
	f := newTestFormatter()

	p := f.FormatStatus(StatusView{})
	assert.Equal(t, "🛡️ AudioGuard Status", p.Title)
	assert.Equal(t, ColorGreen, p.Color)
	assert.Equal(t, []Field{
		{Name: "📡 Protection Status", Value: "❌ Not Connected", Inline: true},
		{Name: "📊 Tier", Value: "FREE", Inline: true},
		{Name: "🔧 Setup", Value: "Pending", Inline: true},
	}, p.Fields)

	p = f.FormatStatus(StatusView{Connected: true, Tier: "pro"})
	assert.Equal(t, "✅ Active", p.Fields[0].Value)
	assert.Equal(t, "PRO", p.Fields[1].Value)
	assert.Equal(t, "Complete", p.Fields[2].Value)
}

func TestFormatSettings(t *testing.T) {
	f := newTestFormatter(WithSettingsURL("https://dashboard.example/settings"))

	sensitivity := 0.7
	enabled, disabled := true, false
	p := f.FormatSettings(SettingsView{AlertSensitivity: &sensitivity, PanicButtonEnabled: &enabled, AutoMuteEnabled: &disabled})

	assert.Equal(t, "⚙️ AudioGuard Settings", p.Title)
	assert.Equal(t, ColorBlue, p.Color)
	assert.Equal(t, "Configure your settings at [AudioGuard Dashboard](https://dashboard.example/settings)", p.Description)
	assert.Equal(t, "70%", p.Fields[0].Value)
	assert.Equal(t, "✅ Enabled", p.Fields[1].Value)
	assert.Equal(t, "❌ Disabled (Pro)", p.Fields[2].Value)
}

func TestFormatSettings_Unconfigured(t *testing.T) {
	p := newTestFormatter().FormatSettings(SettingsView{})
	assert.Empty(t, p.Description)
	for _, field := range p.Fields {
		assert.Equal(t, "Not configured", field.Value, field.Name)
	}

}

func TestFormatSettings_ZeroSensitivityIsUnconfigured(t *testing.T) {
	zero := 0.0
	p := newTestFormatter().FormatSettings(SettingsView{AlertSensitivity: &zero})
	assert.Equal(t, "Not configured", p.Fields[0].Value)

	tiny := 0.004
	p = newTestFormatter().FormatSettings(SettingsView{AlertSensitivity: &tiny})
	assert.Equal(t, "0%", p.Fields[0].Value)
}

func TestWithProductName(t *testing.T) {
	p := newTestFormatter(WithProductName("StreamShield")).FormatStatus(StatusView{})
	assert.Equal(t, "🛡️ StreamShield Status", p.Title)
	assert.Equal(t, "StreamShield Protection System", p.Footer)
}
