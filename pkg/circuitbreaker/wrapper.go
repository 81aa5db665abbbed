package circuitbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"audioguard/internal/config"
	"audioguard/pkg/metrics"
)

type Config struct {
	Name          string
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	ReadyToTrip   func(counts gobreaker.Counts) bool
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: ratioTrip(3, 0.5),
	}
}

// FromSettings builds a breaker config from the circuit_breaker config section,
// keeping defaults for zero values.
func FromSettings(name string, cfg config.CircuitBreakerConfig) Config {
	c := DefaultConfig(name)
	if cfg.MaxRequests > 0 {
		c.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		c.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.MinRequests > 0 || cfg.FailureRatio > 0 {
		minRequests, ratio := cfg.MinRequests, cfg.FailureRatio
		if minRequests == 0 {
			minRequests = 3
		}
		if ratio <= 0 {
			ratio = 0.5
		}
		c.ReadyToTrip = ratioTrip(minRequests, ratio)
	}
	return c
}

func ratioTrip(minRequests uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
	}
}

type Wrapper struct {
	cb *gobreaker.CircuitBreaker
}

func NewWrapper(cfg Config) *Wrapper {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  cfg.ReadyToTrip,
		IsSuccessful: cfg.IsSuccessful,
	}

	// The gauge tracks every transition; a caller hook runs after it.
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		setStateGauge(name, to)
		if cfg.OnStateChange != nil {
			cfg.OnStateChange(name, from, to)
		}
	}

	cb := gobreaker.NewCircuitBreaker(settings)
	setStateGauge(cfg.Name, cb.State())

	return &Wrapper{cb: cb}
}

// ExecuteWithContext runs fn unless ctx is already done or the breaker is open.
func (w *Wrapper) ExecuteWithContext(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := w.cb.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn()
	})
	w.record(err)
	return result, err
}

// Do is the typed form of ExecuteWithContext.
func Do[T any](ctx context.Context, w *Wrapper, fn func() (T, error)) (T, error) {
	result, err := w.ExecuteWithContext(ctx, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if v, ok := result.(T); ok {
			return v, err
		}
		return zero, err
	}
	return result.(T), nil
}

func (w *Wrapper) State() gobreaker.State {
	return w.cb.State()
}

func (w *Wrapper) Counts() gobreaker.Counts {
	return w.cb.Counts()
}

func (w *Wrapper) Name() string {
	return w.cb.Name()
}

func (w *Wrapper) IsOpen() bool {
	return w.cb.State() == gobreaker.StateOpen
}

func (w *Wrapper) record(err error) {
	metrics.CircuitBreakerRequests.WithLabelValues(w.cb.Name(), w.cb.State().String()).Inc()
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(w.cb.Name()).Inc()
	}
}

func setStateGauge(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(v)
}
