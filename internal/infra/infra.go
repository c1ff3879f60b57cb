// Package infra provides shared infrastructure components used across
// the application: the TTL cache and the per-source rate limiter.
package infra

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// --- TTL cache ---

// DefaultTTL is the time-to-live applied to every cache entry.
const DefaultTTL = time.Hour

// CacheEntry holds a cached value with its creation timestamp.
type CacheEntry struct {
	Value     any
	CreatedAt time.Time
}

// Cache is a thread-safe in-memory store with a single global TTL.
// Expired entries are treated as misses and lazily overwritten by the
// next Set; there is no delete path and no background sweeper. One
// instance is shared across all tickers and subjects; it is injected
// explicitly rather than held in package state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
}

// NewCache creates a cache with the given TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
	}
}

// CacheKey builds the composite (subject, hour bucket) key.
func CacheKey(subject string, bucket time.Time) string {
	return fmt.Sprintf("%s:%d", subject, bucket.Unix())
}

// Get retrieves a value. Returns nil, false when the key is absent or
// the entry has outlived the TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Since(entry.CreatedAt) >= c.ttl {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value, overwriting any previous entry for the key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = CacheEntry{
		Value:     value,
		CreatedAt: time.Now(),
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// --- Per-source rate limiter ---

// LimiterConfig holds the timing parameters of the rate limiter.
// The steady-state interval is re-randomized on every acquisition so
// request timing shows no fixed pattern.
type LimiterConfig struct {
	MinInterval time.Duration // lower bound of the per-source interval
	MaxInterval time.Duration // upper bound of the per-source interval
	MinJitter   time.Duration // jitter added on every acquisition
	MaxJitter   time.Duration
	BackoffBase time.Duration // first delay after a throttle signal
	BackoffCap  time.Duration // upper bound on the backoff delay
}

// DefaultLimiterConfig returns the production timing parameters:
// 2-4s between calls to the same source, 100-500ms jitter, and
// exponential backoff from 5s capped at 2 minutes.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		MinInterval: 2 * time.Second,
		MaxInterval: 4 * time.Second,
		MinJitter:   100 * time.Millisecond,
		MaxJitter:   500 * time.Millisecond,
		BackoffBase: 5 * time.Second,
		BackoffCap:  2 * time.Minute,
	}
}

// sourceState tracks per-source pacing. Each source has its own mutex
// so callers for different sources never block each other; callers for
// the same source serialize on it, including across the wait.
type sourceState struct {
	mu          sync.Mutex
	nextAllowed time.Time
	throttles   int  // consecutive throttle reports since last Reset
	backoffDue  bool // next Acquire must serve the backoff delay
}

// RateLimiter gates calls per source key. Acquire blocks until the
// source's minimum interval (plus any pending throttle backoff) has
// elapsed since the previous permitted call.
type RateLimiter struct {
	cfg LimiterConfig

	mu      sync.Mutex
	sources map[string]*sourceState
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg LimiterConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		sources: make(map[string]*sourceState),
	}
}

func (rl *RateLimiter) state(sourceKey string) *sourceState {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	st, ok := rl.sources[sourceKey]
	if !ok {
		st = &sourceState{}
		rl.sources[sourceKey] = st
	}
	return st
}

// Acquire blocks until a call to the source is permitted or the context
// is cancelled. On return it schedules the source's next allowed call a
// randomized interval in the future and consumes any pending backoff.
func (rl *RateLimiter) Acquire(ctx context.Context, sourceKey string) error {
	st := rl.state(sourceKey)

	st.mu.Lock()
	defer st.mu.Unlock()

	wait := time.Until(st.nextAllowed)
	if st.backoffDue {
		if backoff := rl.backoffDelay(st.throttles); backoff > wait {
			wait = backoff
		}
	}
	wait += randDuration(rl.cfg.MinJitter, rl.cfg.MaxJitter)

	if wait > 0 {
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}

	st.backoffDue = false
	st.nextAllowed = time.Now().Add(randDuration(rl.cfg.MinInterval, rl.cfg.MaxInterval))
	return nil
}

// ReportThrottle records that the source signalled "too many requests".
// Each consecutive report doubles the delay imposed on the source's
// next Acquire, up to the configured cap. The escalation survives the
// next Acquire and only clears on Reset, so retry loops wait longer on
// every failed attempt.
func (rl *RateLimiter) ReportThrottle(sourceKey string) {
	st := rl.state(sourceKey)
	st.mu.Lock()
	st.throttles++
	st.backoffDue = true
	st.mu.Unlock()
}

// Reset clears the source's throttle escalation. Adapters call it
// after a successful fetch.
func (rl *RateLimiter) Reset(sourceKey string) {
	st := rl.state(sourceKey)
	st.mu.Lock()
	st.throttles = 0
	st.backoffDue = false
	st.mu.Unlock()
}

// backoffDelay returns BackoffBase × 2^(throttles-1) capped at
// BackoffCap, or zero when no throttle is pending.
func (rl *RateLimiter) backoffDelay(throttles int) time.Duration {
	if throttles <= 0 || rl.cfg.BackoffBase <= 0 {
		return 0
	}
	delay := rl.cfg.BackoffBase
	for i := 1; i < throttles; i++ {
		delay *= 2
		if delay >= rl.cfg.BackoffCap {
			return rl.cfg.BackoffCap
		}
	}
	if rl.cfg.BackoffCap > 0 && delay > rl.cfg.BackoffCap {
		return rl.cfg.BackoffCap
	}
	return delay
}

func randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
