// Package ratelimit gates incoming requests with one token bucket per client.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucket pairs a token bucket with the last time its client was seen,
// so idle clients can be evicted to bound memory.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter maintains one token bucket per client identity (e.g., source IP).
//
// Buckets are created lazily on first request, refill at a configured rate up
// to a configured capacity, and are evicted after a configured idle window.
// Consumption and eviction happen under the same mutex, so an in-flight
// consumption can never be lost or double-counted by a concurrent eviction.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    rate.Limit
	capacity int
	idleTTL  time.Duration

	done chan struct{}
	now  func() time.Time // injectable for tests
}

// New creates a Limiter and starts its background eviction janitor.
//
// Parameters:
//   - capacity: bucket capacity (burst size).
//   - tokensPerMinute: steady refill rate.
//   - idleTTL: idle window after which a client's bucket is dropped.
func New(capacity, tokensPerMinute int, idleTTL time.Duration) *Limiter {
	l := &Limiter{
		buckets:  make(map[string]*bucket),
		limit:    rate.Limit(float64(tokensPerMinute) / 60.0),
		capacity: capacity,
		idleTTL:  idleTTL,
		done:     make(chan struct{}),
		now:      time.Now,
	}
	go l.janitor()
	return l
}

// Allow attempts to consume one token from the client's bucket, creating the
// bucket on first sight. It returns false when the bucket is empty; the
// caller rejects the request without forwarding it.
func (l *Limiter) Allow(client string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.capacity)}
		l.buckets[client] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

// Len reports the number of live buckets. Used by tests and logging.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Close stops the eviction janitor. The Limiter remains usable afterwards;
// only the background cleanup stops.
func (l *Limiter) Close() {
	close(l.done)
}

// janitor periodically drops buckets that have been idle past the TTL.
func (l *Limiter) janitor() {
	interval := l.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle(l.now())
		case <-l.done:
			return
		}
	}
}

// evictIdle removes buckets whose last access is older than the TTL.
func (l *Limiter) evictIdle(now time.Time) {
	cut := now.Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for client, b := range l.buckets {
		if b.lastSeen.Before(cut) {
			delete(l.buckets, client)
		}
	}
}
