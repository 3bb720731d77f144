// Package repository defines data access interfaces for CityPulse.
package repository

import (
	"context"
	"strconv"
	"time"
)

// Cache is a TTL'd byte cache in front of the remote event catalog.
// Implemented in-memory for single-process runs and on Redis where a
// shared cache is available.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// CacheKey generates cache keys for common scenarios.
type CacheKey struct{}

// Event returns a cache key for a single event payload.
func (CacheKey) Event(id string) string {
	return "cache:event:" + id
}

// Search returns a cache key for a search result page.
func (CacheKey) Search(keyword, city string, page, size int) string {
	return "cache:search:" + keyword + ":" + city + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
}
