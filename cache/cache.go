// Package cache provides the prediction cache the Actuator's cache
// handler toggles on. It wraps ristretto, the same admission-policy
// cache used for hot-path lookups elsewhere in the stack.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// PredictionCache caches model responses for frequent queries.
// It starts disabled; the cache decision handler enables it with the
// TTL from the approved plan.
type PredictionCache struct {
	inner *ristretto.Cache

	mu      sync.RWMutex
	enabled bool
	ttl     time.Duration
}

// New builds a disabled cache sized for roughly 100k entries.
func New() (*PredictionCache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6, // 10x max entries, per ristretto guidance
		MaxCost:     100_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &PredictionCache{inner: inner}, nil
}

// Enable turns the cache on with the given entry TTL.
func (p *PredictionCache) Enable(ttl time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
	p.ttl = ttl
}

// Disable turns the cache off. Existing entries age out on their own.
func (p *PredictionCache) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// Enabled reports whether lookups are active.
func (p *PredictionCache) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// TTL returns the configured entry lifetime.
func (p *PredictionCache) TTL() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ttl
}

// Set stores a prediction when the cache is enabled. Returns whether
// the entry was admitted.
func (p *PredictionCache) Set(key string, value any) bool {
	p.mu.RLock()
	enabled, ttl := p.enabled, p.ttl
	p.mu.RUnlock()

	if !enabled {
		return false
	}
	return p.inner.SetWithTTL(key, value, 1, ttl)
}

// Get looks up a cached prediction. Always a miss while disabled.
func (p *PredictionCache) Get(key string) (any, bool) {
	if !p.Enabled() {
		return nil, false
	}
	return p.inner.Get(key)
}

// Wait blocks until buffered writes are applied. Mainly for tests,
// since ristretto admits entries asynchronously.
func (p *PredictionCache) Wait() {
	p.inner.Wait()
}

// Close releases the underlying cache.
func (p *PredictionCache) Close() {
	p.inner.Close()
}
