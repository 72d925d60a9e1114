package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Cache holds serialized list responses keyed by owner. Implementations must
// be safe for concurrent use; a miss is reported with ok == false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool)
	Set(ctx context.Context, key string, value []byte)
	// Generation returns a counter that every Delete of key advances. Read it
	// before loading a value and pass it to Fill.
	Generation(ctx context.Context, key string) int64
	// Fill stores value only if key was not deleted since generation was read.
	Fill(ctx context.Context, key string, generation int64, value []byte) bool
	Delete(ctx context.Context, keys ...string)
	Close() error
}

// FriendsKey names the cached friend list of a user.
func FriendsKey(userID int) string {
	return "friends:" + strconv.Itoa(userID)
}

// TripsKey names the cached trip list of a user.
func TripsKey(userID int) string {
	return "trips:" + strconv.Itoa(userID)
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process implementation of Cache
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	gens    map[string]int64
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		gens:    make(map[string]int64),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.put(key, value)
	c.mu.Unlock()
}

// put must be called with mu held.
func (c *MemoryCache) put(key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries[key] = memoryEntry{value: stored, expires: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Generation(_ context.Context, key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[key]
}

func (c *MemoryCache) Fill(_ context.Context, key string, generation int64, value []byte) bool {
	if c.ttl <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != generation {
		return false
	}
	c.put(key, value)
	return true
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
	}
	c.mu.Unlock()
}

// Close is a no-op for the in-memory cache
func (c *MemoryCache) Close() error { return nil }
