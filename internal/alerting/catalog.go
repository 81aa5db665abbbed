package alerting

import "math/rand"

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

type PickerFunc func(n int) int

func (f PickerFunc) Intn(n int) int {
	return f(n)
}

// DefaultPicker draws from the process-wide source, which is safe for concurrent use.
func DefaultPicker() Picker {
	return PickerFunc(rand.Intn)
}

// Catalog is a fixed list of demonstration alerts.
type Catalog []AlertRecord

// Pick returns a copy of one entry. An out-of-range index from a
// misbehaving picker is clamped rather than trusted.
func (c Catalog) Pick(p Picker) AlertRecord {
	if len(c) == 0 {
		return AlertRecord{}
	}
	i := p.Intn(len(c))
	if i < 0 || i >= len(c) {
		i = 0
	}
	return c[i]
}

// CommandDemoCatalog backs the test-alert slash command.
func CommandDemoCatalog() Catalog {
	return Catalog{
		{Title: "Shape of You", Artist: "Ed Sheeran", RiskLevel: RiskHigh, Confidence: 0.95},
		{Title: "Blinding Lights", Artist: "The Weeknd", RiskLevel: RiskCritical, Confidence: 0.98},
		{Title: "Watermelon Sugar", Artist: "Harry Styles", RiskLevel: RiskMedium, Confidence: 0.82},
	}
}

// SetupTestAlert is sent when the dashboard verifies a channel.
func SetupTestAlert() AlertRecord {
	return AlertRecord{Title: "Test Song", Artist: "Test Artist", RiskLevel: RiskMedium, Confidence: 0.85}
}

func PanicAlert() AlertRecord {
	return AlertRecord{Title: "PANIC BUTTON ACTIVATED", Artist: "Emergency Alert", RiskLevel: RiskCritical, Confidence: 1.0}
}
