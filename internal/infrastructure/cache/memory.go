package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
)

// cacheItem represents a single cached catalogue with expiration
type cacheItem struct {
	catalog    *domain.Catalog
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory catalogue cache with TTL support.
// Catalogues are immutable once built, so entries are stored by reference.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory catalogue cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a catalogue from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.Catalog, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	return item.catalog, nil
}

// Set stores a catalogue in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, catalog *domain.Catalog, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		catalog:    catalog,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a catalogue from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of cached catalogues (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all cached catalogues
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
