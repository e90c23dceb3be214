// Package ratelimit provides rate limiter implementations.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"logrelay/internal/boundaries/out"
)

// Ensure MemoryStore implements out.RateLimiter.
var _ out.RateLimiter = (*MemoryStore)(nil)

// MemoryStore is an in-memory rate limiter implementation using golang.org/x/time/rate.
// Each unique key gets its own independent rate limiter.
type MemoryStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	limit    rate.Limit
	burst    int
}

// NewMemoryStore creates a new in-memory rate limiter store. A non-positive
// rps disables limiting.
func NewMemoryStore(rps float64, burst int) *MemoryStore {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &MemoryStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Wait blocks until a call identified by key is allowed.
func (s *MemoryStore) Wait(ctx context.Context, key string) error {
	return s.getLimiter(key).Wait(ctx)
}

// getLimiter returns the rate limiter for the given key, creating one if it doesn't exist.
func (s *MemoryStore) getLimiter(key string) *rate.Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(s.limit, s.burst)
	s.limiters[key] = limiter
	return limiter
}
