// Package ratelimit provides a per-client token bucket.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter tracks one token bucket per client key (typically the remote IP).
// Buckets refill at perMinute/60 tokens per second with a burst of perMinute.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	perMinute int
}

// NewLimiter creates a limiter allowing perMinute requests per client per
// minute. A non-positive value disables limiting.
func NewLimiter(perMinute int) *Limiter {
	return &Limiter{
		clients:   make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

// Allow reports whether the client may proceed.
func (l *Limiter) Allow(key string) bool {
	if l.perMinute <= 0 {
		return true
	}
	l.mu.Lock()
	lim, ok := l.clients[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.clients[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
