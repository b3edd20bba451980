package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 5 * time.Minute
	idleTTL         = 10 * time.Minute
)

// IPLimiter is a token bucket per client IP.
type IPLimiter struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter allows perMinute sustained requests per IP with the given burst.
func NewIPLimiter(perMinute float64, burst int, clock clockwork.Clock) *IPLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiter{
		clock:     clock,
		limiters:  make(map[string]*limiterEntry),
		rate:      rate.Limit(perMinute / 60),
		burst:     burst,
		cleanupAt: clock.Now().Add(cleanupInterval),
	}
}

// Allow consumes a token for ip, returning false when the bucket is empty.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if now.After(l.cleanupAt) {
		l.cleanup(now)
		l.cleanupAt = now.Add(cleanupInterval)
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// must hold mu
func (l *IPLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-idleTTL)
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// Tracked returns how many IPs currently hold a bucket.
func (l *IPLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
