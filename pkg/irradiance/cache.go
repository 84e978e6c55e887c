package irradiance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Cache stores irradiance by request key.
type Cache interface {
	Get(ctx context.Context, key string) (Monthly, bool, error)
	Put(ctx context.Context, key string, m Monthly) error
}

// CacheKey identifies a request. Coordinates are rounded to 4 decimal places
// (about 11 m) so nearby requests share an entry.
func CacheKey(req Request) string {
	return fmt.Sprintf("%.4f,%.4f|tilt=%.1f|az=%.1f|%s",
		req.Location.Latitude, req.Location.Longitude, req.TiltDeg, req.AzimuthDeg, req.ArrayType)
}

// Caching serves repeated requests from a Cache. Cache failures are logged
// and fall through to the wrapped provider.
type Caching struct {
	Provider Provider
	Cache    Cache
	Observer Observer
}

func (c *Caching) Name() string { return providerName(c.Provider) }

// Monthly implements Provider.
func (c *Caching) Monthly(ctx context.Context, req Request) (Monthly, error) {
	key := CacheKey(req)
	m, ok, err := c.Cache.Get(ctx, key)
	switch {
	case err != nil:
		klog.ErrorS(err, "Irradiance cache lookup failed", "key", key)
	case ok:
		klog.V(2).InfoS("Using cached irradiance", "key", key)
		if c.Observer != nil {
			c.Observer.ObserveIrradianceRequest(c.Name(), OutcomeCacheHit, 0)
		}
		return m, nil
	}

	m, err = c.Provider.Monthly(ctx, req)
	if err != nil {
		return Monthly{}, err
	}
	if err := c.Cache.Put(ctx, key, m); err != nil {
		klog.ErrorS(err, "Storing irradiance in cache failed", "key", key)
	}
	return m, nil
}

// MemoryCache is an in-process Cache with a fixed time to live.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	values  Monthly
	expires time.Time
}

// NewMemoryCache creates a cache whose entries expire after ttl. A
// non-positive ttl keeps entries for the life of the process.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Monthly, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Monthly{}, false, nil
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Monthly{}, false, nil
	}
	return e.values, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, m Monthly) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{values: m, expires: c.now().Add(c.ttl)}
	return nil
}
