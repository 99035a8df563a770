// Package memory is the in-process domain.Cache used when no Redis is configured.
package memory

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"dari/internal/adapters/observability"
)

// expired entries are swept on this interval
const cleanupInterval = time.Minute

type Cache struct {
	c    *gocache.Cache
	unit time.Duration // ttlSec unit; tests shorten it
}

func New() *Cache {
	return &Cache{c: gocache.New(gocache.NoExpiration, cleanupInterval), unit: time.Second}
}

// Values are stored JSON-encoded so callers never share memory with the cache.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.c.Get(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(v.([]byte), dst)
}

// Set keeps v for ttlSec; zero or less means until deleted.
func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := gocache.NoExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * c.unit
	}
	c.c.Set(key, b, ttl)
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	c.c.Delete(key)
	observability.ObserveCache("memory", "del")
	return nil
}

// Len counts stored entries, including expired ones not yet swept.
func (c *Cache) Len() int { return c.c.ItemCount() }
