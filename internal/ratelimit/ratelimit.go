// Package ratelimit provides a keyed token-bucket rate limiter, used to
// throttle credential-guessing attempts per client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle entries are evicted so the map doesn't grow with every IP ever seen.
const (
	cleanupInterval = 5 * time.Minute
	maxIdle         = 15 * time.Minute
)

// entry pairs a limiter with its last access time for eviction.
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting. Each unique key gets its
// own independent token bucket.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new keyed rate limiter allowing rps requests per second
// per key with the given burst size.
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go krl.cleanup()

	return krl
}

// Allow reports whether a request for the given key should be allowed.
// It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	e, exists := krl.entries[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = time.Now()
	krl.mu.Unlock()

	return e.limiter.Allow()
}

// Stop shuts down the cleanup goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// cleanup periodically evicts buckets that have been idle past maxIdle.
func (krl *KeyedRateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case now := <-ticker.C:
			krl.mu.Lock()
			for key, e := range krl.entries {
				if now.Sub(e.lastSeen) > maxIdle {
					delete(krl.entries, key)
				}
			}
			krl.mu.Unlock()
		}
	}
}
