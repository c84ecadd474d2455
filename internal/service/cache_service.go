package service

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/odyssey-backend/internal/goroutine"
)

// CacheService provides in-memory caching with TTL and invalidation support.
type CacheService struct {
	mu    sync.RWMutex
	cache map[string]*cacheEntry
	stop  chan struct{}
	once  sync.Once
	gen   uint64 // растёт при каждом Delete
}

type cacheEntry struct {
	data      any
	expiresAt time.Time
}

// NewCacheService creates a new cache service and starts the cleanup loop.
func NewCacheService(cleanupEvery time.Duration) *CacheService {
	cs := &CacheService{
		cache: make(map[string]*cacheEntry),
		stop:  make(chan struct{}),
	}

	goroutine.SafeGo("cache cleanup", func() { cs.cleanup(cleanupEvery) })

	return cs
}

// Close stops the cleanup loop.
func (cs *CacheService) Close() {
	cs.once.Do(func() { close(cs.stop) })
}

// Get retrieves a value from cache.
func (cs *CacheService) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.data, true
}

// Set stores a value in cache with TTL.
func (cs *CacheService) Set(key string, value any, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache[key] = &cacheEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes a key from cache.
func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
	cs.gen++
}

// GetOrSet retrieves a value from cache or computes it if not found.
// Errors are not cached. A value loaded while a Delete happened is returned
// to the caller but not cached.
func (cs *CacheService) GetOrSet(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (any, error),
) (any, error) {
	if value, found := cs.Get(key); found {
		return value, nil
	}

	cs.mu.RLock()
	gen := cs.gen
	cs.mu.RUnlock()

	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	cs.mu.Lock()
	if cs.gen == gen {
		cs.cache[key] = &cacheEntry{data: value, expiresAt: time.Now().Add(ttl)}
	}
	cs.mu.Unlock()

	return value, nil
}

// cleanup removes expired entries periodically.
func (cs *CacheService) cleanup(every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stop:
			return
		case <-ticker.C:
			cs.mu.Lock()
			now := time.Now()
			for key, entry := range cs.cache {
				if now.After(entry.expiresAt) {
					delete(cs.cache, key)
				}
			}
			cs.mu.Unlock()
		}
	}
}

// Cache key generators
const cachedMessageIDsKey = "mood:cached_ids"
