package sqlcheck

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimitWindow is the sliding-window size for per-client
	// validation quotas.
	DefaultRateLimitWindow = time.Minute
	// DefaultRateLimitMax is the number of validation checks a single
	// client may consume per window.
	DefaultRateLimitMax = 30
)

type rateLimitRecord struct {
	count       int
	windowStart time.Time
}

// RateLimiter is an in-memory sliding-window counter keyed by client
// identifier. It is local to one process; the interface boundary is kept
// narrow so a shared counter store can replace it for multi-instance
// deployments.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	records map[string]*rateLimitRecord

	now func() time.Time // injectable clock for tests
}

// NewRateLimiter creates a limiter allowing limit checks per window.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		limit:   limit,
		records: make(map[string]*rateLimitRecord),
		now:     time.Now,
	}
}

// Allow records one validation check for clientKey and reports whether the
// client is still within its quota. The read-check-increment sequence is
// serialized under one mutex so concurrent requests cannot both slip past
// the cap. Expired records are swept opportunistically on each call.
func (l *RateLimiter) Allow(clientKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	rec, ok := l.records[clientKey]
	if !ok || now.Sub(rec.windowStart) > l.window {
		l.records[clientKey] = &rateLimitRecord{count: 1, windowStart: now}
		return true
	}

	if rec.count >= l.limit {
		return false
	}

	rec.count++
	return true
}

// sweepLocked drops records whose window started more than twice the window
// size ago, bounding memory held for one-off clients. Caller holds l.mu.
func (l *RateLimiter) sweepLocked(now time.Time) {
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) > 2*l.window {
			delete(l.records, key)
		}
	}
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
