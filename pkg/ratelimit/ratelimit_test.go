package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"audioguard/internal/config"
)

func TestAllow_LimitsPerKey(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 2, CleanupInterval: time.Minute, MaxAge: time.Minute})

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestEvict(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1, CleanupInterval: time.Minute, MaxAge: time.Minute})
	l.get("10.0.0.1")
	l.evict(time.Now().Add(2 * time.Minute))
	assert.Empty(t, l.visitors)
}

func TestFromSettings(t *testing.T) {
	c := FromSettings(config.RateLimitConfig{RPS: 5, CleanupInterval: 30})
	assert.Equal(t, 5.0, c.RPS)
	assert.Equal(t, 20, c.Burst)
	assert.Equal(t, 30*time.Second, c.CleanupInterval)
}
