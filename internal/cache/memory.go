package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a cache whose entries expire after ttl. Expired
// entries are purged every 2*ttl; a non-positive ttl never expires entries.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{entries: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryCache{entries: gocache.New(ttl, 2*ttl)}
}

// Get returns a copy of the cached value.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of value with the default expiration.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	m.entries.SetDefault(key, append([]byte(nil), value...))
	return nil
}

// Len returns the number of entries, expired ones included until purged.
func (m *MemoryCache) Len() int {
	return m.entries.ItemCount()
}
