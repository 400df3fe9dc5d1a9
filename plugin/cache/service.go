package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ServiceConfig configures the cache service.
type ServiceConfig struct {
	Capacity int           // Maximum number of entries (default: 1000)
	TTL      time.Duration // Entry lifetime (default: 5 minutes)
}

// DefaultServiceConfig returns default cache service configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Capacity: 1000,
		TTL:      5 * time.Minute,
	}
}

// Service implements CacheService with an expiring LRU.
type Service[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewService creates a new cache service.
func NewService[V any](cfg ServiceConfig) *Service[V] {
	def := DefaultServiceConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Service[V]{lru: expirable.NewLRU[string, V](cfg.Capacity, nil, cfg.TTL)}
}

// Get retrieves a value from cache.
func (s *Service[V]) Get(_ context.Context, key string) (V, bool) {
	return s.lru.Get(key)
}

// Set stores a value in cache.
func (s *Service[V]) Set(_ context.Context, key string, value V) error {
	s.lru.Add(key, value)
	return nil
}

// Size returns the number of entries in the cache.
func (s *Service[V]) Size() int {
	return s.lru.Len()
}

// Ensure Service implements CacheService
var _ CacheService[[]byte] = (*Service[[]byte])(nil)
