// Package cache provides the parse-result cache.
package cache

import "context"

// CacheService defines the cache service interface.
// Consumers: ctparse.Service.
type CacheService[V any] interface {
	// Get retrieves a value from cache.
	// Returns: value, whether it exists
	Get(ctx context.Context, key string) (V, bool)

	// Set stores a value in cache under the service TTL.
	Set(ctx context.Context, key string, value V) error

	// Size returns the number of live entries.
	Size() int
}
