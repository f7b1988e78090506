// Package ratelimit throttles outbound calls to the external services the
// pipeline depends on ("llm", "serpapi").
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// ServiceLimiter holds one token bucket per external service. Services named
// at construction get their own limits; anything else falls back to the
// default config, created lazily on first use.
type ServiceLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

func NewServiceLimiter(defaults Config, services map[string]Config) *ServiceLimiter {
	limiters := make(map[string]*rate.Limiter, len(services))
	for name, cfg := range services {
		limiters[name] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
	}

	return &ServiceLimiter{
		limiters: limiters,
		defaults: defaults,
	}
}

func (s *ServiceLimiter) limiter(service string) *rate.Limiter {
	s.mu.RLock()
	limiter, exists := s.limiters[service]
	s.mu.RUnlock()

	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists = s.limiters[service]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(s.defaults.RequestsPerSecond), s.defaults.BurstSize)
	s.limiters[service] = limiter
	return limiter
}

// Wait blocks until the service's limiter grants a slot or ctx is done.
func (s *ServiceLimiter) Wait(ctx context.Context, service string) error {
	return s.limiter(service).Wait(ctx)
}

// Allow reports whether a call may proceed right now without blocking.
func (s *ServiceLimiter) Allow(service string) bool {
	return s.limiter(service).Allow()
}
