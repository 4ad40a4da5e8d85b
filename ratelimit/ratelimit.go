// Package ratelimit provides a token bucket limiter keyed by name.
//
// The dashboard uses it to throttle manual reloads so a held-down refresh
// key does not spawn a Taskwarrior process per key repeat.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter per key.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	burst    int           // max tokens (bucket capacity)
	now      func() time.Time
}

type bucket struct {
	tokens    int
	lastCheck time.Time
}

// Config holds rate limiter configuration.
type Config struct {
	Rate     int           // calls allowed per interval
	Interval time.Duration // time interval for rate
	Burst    int           // maximum burst size
}

// DefaultRefreshConfig allows one manual reload per second with a burst
// of 3.
func DefaultRefreshConfig() Config {
	return Config{
		Rate:     1,
		Interval: time.Second,
		Burst:    3,
	}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Rate < 1 {
		cfg.Rate = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     cfg.Rate,
		interval: cfg.Interval,
		burst:    cfg.Burst,
		now:      time.Now,
	}
}

// WithClock replaces the limiter's clock.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

// Allow reports whether a call for key may proceed, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, exists := l.buckets[key]
	if !exists {
		// New keys start with a full bucket
		l.buckets[key] = &bucket{
			tokens:    l.burst - 1,
			lastCheck: now,
		}
		return true
	}

	elapsed := now.Sub(b.lastCheck)
	tokensToAdd := int(elapsed/l.interval) * l.rate

	if tokensToAdd > 0 {
		b.tokens += tokensToAdd
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.lastCheck = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Reset clears the state for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}
