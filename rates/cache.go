package rates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"go-currency-ledger"
)

// DefaultTTL how long a fetched table is considered fresh.
const DefaultTTL = time.Hour

// Cache decorates a rates.Service with a persisted, time limited rate table.
//
// A fresh table is served as is. Otherwise the source is asked for new rates which are then
// persisted. When the source fails a previously known table is served even if stale, only
// when nothing is known at all does the lookup fail with ledger.ErrNoRatesAvailable.
type Cache struct {
	// next the source being decorated with a cache
	next Service

	// store persists the table between runs
	store Store

	// ttl freshness window measured from the table timestamp
	ttl time.Duration

	// lock synchronizes access to current, the table is swapped wholesale
	lock    sync.RWMutex
	current ledger.RateTable
	loaded  bool

	now     func() time.Time
	metrics *CacheMetrics
	logger  log.Logger
}

// CacheOption configures optional Cache collaborators.
type CacheOption func(*Cache)

// WithLogger logs cache decisions to logger.
func WithLogger(logger log.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// WithMetrics counts lookups by outcome.
func WithMetrics(m *CacheMetrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache returns a Cache in front of next, persisting to store.
func NewCache(ttl time.Duration, store Store, next Service, opts ...CacheOption) *Cache {
	c := &Cache{
		next:   next,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the current rate table, refreshing it from the source when stale or absent.
func (c *Cache) Table(ctx context.Context) (ledger.RateTable, error) {
	current, ok := c.cached(ctx)
	now := c.now()

	if ok && now.Sub(current.Timestamp) < c.ttl {
		c.metrics.observe(resultHit)
		return current, nil
	}

	level.Debug(c.logger).Log("msg", "rates expired or absent, refreshing", "cached", ok)
	return c.refresh(ctx, now, current, ok)
}

// Refresh asks the source for new rates regardless of the age of the cached table.
// The stale fallback of Table applies.
func (c *Cache) Refresh(ctx context.Context) (ledger.RateTable, error) {
	current, ok := c.cached(ctx)
	return c.refresh(ctx, c.now(), current, ok)
}

// cached returns the in-memory table, seeding it from the store on first use.
func (c *Cache) cached(ctx context.Context) (ledger.RateTable, bool) {
	c.lock.RLock()
	current, ok := c.current, c.loaded
	c.lock.RUnlock()
	if ok {
		return current, true
	}

	stored, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotStored) {
			level.Warn(c.logger).Log("msg", "reading stored rates failed", "err", err)
		}
		return ledger.RateTable{}, false
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	// a fetch may have completed while the store was read
	if c.loaded {
		return c.current, true
	}
	c.current = stored
	c.loaded = true
	return stored, true
}

// refresh fetches from the source, falling back to previous when the source fails.
func (c *Cache) refresh(ctx context.Context, now time.Time, previous ledger.RateTable, havePrevious bool) (ledger.RateTable, error) {
	rates, err := c.next.Rates(ctx)
	if err != nil {
		if !havePrevious {
			c.metrics.observe(resultUnavailable)
			return ledger.RateTable{}, fmt.Errorf("%w: %w", ledger.ErrNoRatesAvailable, err)
		}
		if now.Sub(previous.Timestamp) < c.ttl {
			c.metrics.observe(resultHit)
			level.Warn(c.logger).Log("msg", "rate source failed, keeping cached rates", "err", err)
			return previous, nil
		}
		c.metrics.observe(resultStale)
		level.Warn(c.logger).Log(
			"msg", "rate source failed, using stale rates",
			"captured", previous.Timestamp.UTC().Format(time.RFC3339),
			"err", err,
		)
		previous.Stale = true
		return previous, nil
	}

	c.metrics.observe(resultMiss)
	table := ledger.RateTable{Timestamp: time.Unix(now.Unix(), 0), Rates: rates}
	if err := c.store.Save(ctx, table); err != nil {
		// the fetched table is still good, only the next run loses it
		level.Warn(c.logger).Log("msg", "persisting rates failed", "err", err)
	}
	c.swap(table)
	return table, nil
}

func (c *Cache) swap(table ledger.RateTable) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.current = table
	c.loaded = true
}
