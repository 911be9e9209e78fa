package pixz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Cache node observability.
const (
	CacheLookupsTotal   = metricz.Key("cache.lookups.total")
	CacheHitsTotal      = metricz.Key("cache.hits.total")
	CacheMissesTotal    = metricz.Key("cache.misses.total")
	CacheEvictionsTotal = metricz.Key("cache.evictions.total")
	CacheErrorsTotal    = metricz.Key("cache.errors.total")
)

// Span names for Cache node.
const (
	CacheLookupSpan = tracez.Key("cache.lookup")
)

// Span tags for Cache node.
const (
	CacheTagNode  = tracez.Tag("cache.node")
	CacheTagHit   = tracez.Tag("cache.hit")
	CacheTagError = tracez.Tag("cache.error")

	// Hook event keys.
	CacheEventHit  = hookz.Key("cache.hit")
	CacheEventMiss = hookz.Key("cache.miss")
)

// CacheEvent reports a cache decision for one coordinate.
type CacheEvent struct {
	Name      Name      // Node name
	X, Y      int       // Queried coordinate
	Hit       bool      // Whether the result came from the cache
	Timestamp time.Time // When the event occurred
}

type cacheKey struct {
	x, y int
}

type cacheEntry[P any] struct {
	pixel    P
	present  bool
	storedAt time.Time
}

// Cache memoizes the outcomes of the wrapped source per coordinate. The core
// never caches on its own - every plain query re-evaluates from root to leaf
// - so Cache is the explicit, opt-in wrapping node for pipelines whose leaf
// work is expensive.
//
// Present values and absences are cached; failures are not, so a failing
// leaf is consulted again on the next query. Entries older than the TTL are
// evicted lazily on access; a zero TTL disables expiry.
//
// Correctness caveat: Cache assumes the wrapped tree is pure, which every
// pixz-built tree is. Wrapping a source whose leaf reads mutable external
// state simply freezes whatever it answered first.
//
// Example:
//
//	cached := pixz.NewCache("memo", expensive, time.Minute)
//
// The clock can be replaced for tests:
//
//	clock := clockz.NewFakeClock()
//	cached.WithClock(clock)
//	clock.Advance(2 * time.Minute) // expires everything
type Cache[P any] struct {
	source  Source[P]
	entries map[cacheKey]cacheEntry[P]
	clock   clockz.Clock
	ttl     time.Duration
	name    Name
	mu      sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[CacheEvent]
}

// NewCache creates a Cache node over source with the given TTL. Ownership of
// source transfers to the node. A ttl of zero keeps entries forever.
func NewCache[P any](name Name, source Source[P], ttl time.Duration) *Cache[P] {
	registry := metricz.New()
	registry.Counter(CacheLookupsTotal)
	registry.Counter(CacheHitsTotal)
	registry.Counter(CacheMissesTotal)
	registry.Counter(CacheEvictionsTotal)
	registry.Counter(CacheErrorsTotal)

	return &Cache[P]{
		name:    name,
		source:  source,
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry[P]),
		metrics: registry,
		tracer:  tracez.New(),
		hooks:   hookz.New[CacheEvent](),
	}
}

// Lookup implements the Source interface.
func (c *Cache[P]) Lookup(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, c.name, x, y)

	ctx, span := c.tracer.StartSpan(ctx, CacheLookupSpan)
	defer span.Finish()
	span.SetTag(CacheTagNode, string(c.name))

	c.metrics.Counter(CacheLookupsTotal).Inc()

	key := cacheKey{x: x, y: y}
	now := c.getClock().Now()

	c.mu.RLock()
	entry, cached := c.entries[key]
	source := c.source
	ttl := c.ttl
	c.mu.RUnlock()

	if cached && ttl > 0 && now.Sub(entry.storedAt) >= ttl {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have refreshed it.
		if current, still := c.entries[key]; still && now.Sub(current.storedAt) >= ttl {
			delete(c.entries, key)
			c.metrics.Counter(CacheEvictionsTotal).Inc()
			capitan.Info(ctx, SignalCacheEvicted,
				FieldName.Field(string(c.name)),
				FieldX.Field(x),
				FieldY.Field(y),
				FieldEntryAge.Field(now.Sub(current.storedAt).Seconds()),
			)
		}
		c.mu.Unlock()
		cached = false
	}

	if cached {
		c.metrics.Counter(CacheHitsTotal).Inc()
		span.SetTag(CacheTagHit, "true")
		_ = c.hooks.Emit(ctx, CacheEventHit, CacheEvent{ //nolint:errcheck
			Name:      c.name,
			X:         x,
			Y:         y,
			Hit:       true,
			Timestamp: time.Now(),
		})
		if !entry.present {
			var zero P
			return zero, false, nil
		}
		return entry.pixel, true, nil
	}

	span.SetTag(CacheTagHit, "false")
	c.metrics.Counter(CacheMissesTotal).Inc()

	value, present, srcErr := source.Lookup(ctx, x, y)
	if srcErr != nil {
		// Failures are never cached; the next query re-consults the source.
		c.metrics.Counter(CacheErrorsTotal).Inc()
		span.SetTag(CacheTagError, srcErr.Error())
		var zero P
		return zero, false, relayError(srcErr, c.name)
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry[P]{pixel: value, present: present, storedAt: now}
	c.mu.Unlock()

	_ = c.hooks.Emit(ctx, CacheEventMiss, CacheEvent{ //nolint:errcheck
		Name:      c.name,
		X:         x,
		Y:         y,
		Hit:       false,
		Timestamp: time.Now(),
	})

	if !present {
		var zero P
		return zero, false, nil
	}
	return value, true, nil
}

// Dimensions returns the wrapped source's dimensions.
func (c *Cache[P]) Dimensions() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source.Dimensions()
}

// Name returns the name of this node.
func (c *Cache[P]) Name() Name {
	return c.name
}

// Purge drops every cached entry.
func (c *Cache[P]) Purge() *Cache[P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry[P])
	return c
}

// Len returns the number of cached entries.
func (c *Cache[P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// WithClock sets a custom clock for TTL checks. Used in testing.
func (c *Cache[P]) WithClock(clock clockz.Clock) *Cache[P] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	return c
}

func (c *Cache[P]) getClock() clockz.Clock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

// Source returns the wrapped source.
func (c *Cache[P]) Source() Source[P] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Metrics returns the metrics registry for this node.
func (c *Cache[P]) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this node.
func (c *Cache[P]) Tracer() *tracez.Tracer {
	return c.tracer
}

// OnHit registers a handler called asynchronously on cache hits.
func (c *Cache[P]) OnHit(handler func(context.Context, CacheEvent) error) error {
	_, err := c.hooks.Hook(CacheEventHit, handler)
	return err
}

// OnMiss registers a handler called asynchronously on cache misses.
func (c *Cache[P]) OnMiss(handler func(context.Context, CacheEvent) error) error {
	_, err := c.hooks.Hook(CacheEventMiss, handler)
	return err
}

// Close gracefully shuts down observability components.
func (c *Cache[P]) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}
