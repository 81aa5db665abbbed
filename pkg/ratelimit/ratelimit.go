package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"audioguard/internal/config"
	"audioguard/pkg/metrics"
)

type Config struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

func DefaultConfig() Config {
	return Config{
		RPS:             10,
		Burst:           20,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

// FromSettings maps the rate_limit config section, keeping defaults for zero values.
func FromSettings(cfg config.RateLimitConfig) Config {
	c := DefaultConfig()
	if cfg.RPS > 0 {
		c.RPS = cfg.RPS
	}
	if cfg.Burst > 0 {
		c.Burst = cfg.Burst
	}
	if cfg.CleanupInterval > 0 {
		c.CleanupInterval = time.Duration(cfg.CleanupInterval) * time.Second
	}
	if cfg.MaxAge > 0 {
		c.MaxAge = time.Duration(cfg.MaxAge) * time.Second
	}
	return c
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	cfg      Config
	mu       sync.Mutex
	visitors map[string]*visitor
}

func New(cfg Config) *Limiter {
	return &Limiter{cfg: cfg, visitors: make(map[string]*visitor)}
}

// Run evicts idle visitors until ctx is done.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evict(now)
		}
	}
}

func (l *Limiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.cfg.MaxAge {
			delete(l.visitors, ip)
		}
	}
}

func (l *Limiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Allow spends one token from key's bucket. Callers decide which requests
// are limited and what key identifies the client.
func (l *Limiter) Allow(key string) bool {
	if !l.get(key).Allow() {
		metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
		return false
	}
	metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()
	return true
}
