package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioguard/internal/config"
)

var errBackend = errors.New("backend down")

func TestWrapper_TripsAfterFailures(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-trip"))

	for i := 0; i < 3; i++ {
		_, err := w.ExecuteWithContext(context.Background(), func() (interface{}, error) {
			return nil, errBackend
		})
		require.ErrorIs(t, err, errBackend)
	}

	assert.True(t, w.IsOpen())

	called := false
	_, err := w.ExecuteWithContext(context.Background(), func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestWrapper_CancelledContext(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-cancel"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.ExecuteWithContext(ctx, func() (interface{}, error) {
		t.Fatal("must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), w.Counts().Requests)
}

func TestDo_Typed(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-do"))

	got, err := Do(context.Background(), w, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	got, err = Do(context.Background(), w, func() (string, error) { return "", errBackend })
	assert.ErrorIs(t, err, errBackend)
	assert.Empty(t, got)
}

func TestIsSuccessful_ExcludesErrors(t *testing.T) {
	cfg := DefaultConfig("test-successful")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errBackend) }
	w := NewWrapper(cfg)

	for i := 0; i < 5; i++ {
		_, _ = w.ExecuteWithContext(context.Background(), func() (interface{}, error) { return nil, errBackend })
	}
	assert.Equal(t, gobreaker.StateClosed, w.State())
}

func TestFromSettings(t *testing.T) {
	c := FromSettings("store", config.CircuitBreakerConfig{MaxRequests: 7, Timeout: time.Second})
	assert.Equal(t, "store", c.Name)
	assert.Equal(t, uint32(7), c.MaxRequests)
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, 60*time.Second, c.Interval)

	trip := FromSettings("x", config.CircuitBreakerConfig{MinRequests: 10, FailureRatio: 0.9}).ReadyToTrip
	assert.False(t, trip(gobreaker.Counts{Requests: 5, TotalFailures: 5}))
	assert.True(t, trip(gobreaker.Counts{Requests: 10, TotalFailures: 9}))
}
