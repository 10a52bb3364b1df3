package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key. Each bucket refills maxHits
// tokens per window and allows bursts of up to maxHits. A bucket left idle
// for a whole window is full again and gets dropped.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	maxHits   int
	window    time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	limit := rate.Inf
	if window > 0 && maxHits > 0 {
		limit = rate.Limit(float64(maxHits) / window.Seconds())
	}

	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		maxHits: maxHits,
		window:  window,
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.maxHits)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// prune runs at most once per window.
func (l *Limiter) prune(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.buckets, key)
		}
	}
	l.nextSweep = now.Add(l.window)
}
