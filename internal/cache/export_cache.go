// Package cache memoizes per-locale export snapshots.
//
// Each locale has a generation counter. Invalidate bumps it and drops the
// stored snapshot. A computation remembers the generation it started under and
// only stores its result if the generation is unchanged, so an invalidation
// that lands while a snapshot is being built always wins. Concurrent misses
// for the same locale and generation share one computation.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"transcatalog/internal/logger"
	"transcatalog/internal/model"
)

// DefaultTTL is how long a snapshot is served without explicit invalidation.
const DefaultTTL = 60 * time.Second

const maxConcurrentWarm = 4

// Loader reads every translation of a locale.
type Loader interface {
	ListByLocale(ctx context.Context, locale string) ([]model.Translation, error)
}

type Stats struct {
	Hits        int64
	Misses      int64
	Discarded   int64
	StoreErrors int64
	// Locales is the number of locales currently tracked.
	Locales int
}

type ExportCache struct {
	loader Loader
	store  SnapshotStore
	ttl    time.Duration
	now    func() time.Time

	flight singleflight.Group

	mu    sync.Mutex
	slots map[string]*slot

	hits        atomic.Int64
	misses      atomic.Int64
	discarded   atomic.Int64
	storeErrors atomic.Int64
}

type slot struct {
	// refs counts callers holding the slot; guarded by ExportCache.mu.
	// Only unreferenced slots are dropped, so a generation is never lost
	// while a computation or invalidation still depends on it.
	refs int

	mu  sync.Mutex
	gen uint64
	// bypass is set when a stored snapshot could not be deleted; reads skip
	// the store until a fresh snapshot is stored over it.
	bypass bool
}

type Option func(*ExportCache)

// WithStore replaces the default in-memory store.
func WithStore(store SnapshotStore) Option {
	return func(c *ExportCache) { c.store = store }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *ExportCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ExportCache) { c.now = now }
}

func NewExportCache(loader Loader, opts ...Option) *ExportCache {
	c := &ExportCache{
		loader: loader,
		store:  NewMemoryStore(),
		ttl:    DefaultTTL,
		now:    time.Now,
		slots:  make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ExportCache) acquire(locale string) *slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[locale]
	if !ok {
		s = &slot{}
		c.slots[locale] = s
	}
	s.refs++
	return s
}

func (c *ExportCache) release(s *slot) {
	c.mu.Lock()
	s.refs--
	c.mu.Unlock()
}

// pruneSlots drops slots nobody holds. A slot in bypass mode is kept because
// the store may still carry the stale snapshot it guards against.
func (c *ExportCache) pruneSlots() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for locale, s := range c.slots {
		if s.refs > 0 {
			continue
		}
		s.mu.Lock()
		bypass := s.bypass
		s.mu.Unlock()
		if bypass {
			continue
		}
		delete(c.slots, locale)
		pruned++
	}
	return pruned
}

// Get returns the live snapshot for locale, computing and storing one on a miss.
func (c *ExportCache) Get(ctx context.Context, locale string) (*Snapshot, error) {
	s := c.acquire(locale)
	defer c.release(s)

	s.mu.Lock()
	gen, bypass := s.gen, s.bypass
	s.mu.Unlock()

	if !bypass {
		if snap, ok := c.lookup(ctx, locale); ok {
			c.hits.Add(1)
			return snap, nil
		}
	}
	c.misses.Add(1)

	// Requests that arrive after an invalidation get a new flight key and
	// never join a computation that may predate the mutation.
	key := locale + "@" + strconv.FormatUint(gen, 10)
	v, err, _ := c.flight.Do(key, func() (any, error) {
		return c.compute(context.WithoutCancel(ctx), locale, s, gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *ExportCache) lookup(ctx context.Context, locale string) (*Snapshot, bool) {
	snap, ok, err := c.store.Get(ctx, locale)
	if err != nil {
		c.storeErrors.Add(1)
		logger.Warn("export cache read failed",
			"module", "cache",
			"action", "get",
			"resource", "export",
			"result", "failed",
			"locale", locale,
			"error", err,
		)
		return nil, false
	}
	if !ok || !snap.Live(c.now()) {
		return nil, false
	}
	return snap, true
}

func (c *ExportCache) compute(ctx context.Context, locale string, s *slot, gen uint64) (*Snapshot, error) {
	start := time.Now()
	items, err := c.loader.ListByLocale(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("load locale %q: %w", locale, err)
	}
	snap, err := Fold(locale, items, c.now(), c.ttl)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		c.discarded.Add(1)
		logger.Debug("export snapshot discarded",
			"module", "cache",
			"action", "store",
			"resource", "export",
			"result", "skipped",
			"locale", locale,
		)
		return snap, nil
	}

	if err := c.store.Set(ctx, snap, c.ttl); err != nil {
		c.storeErrors.Add(1)
		logger.Warn("export cache store failed",
			"module", "cache",
			"action", "store",
			"resource", "export",
			"result", "failed",
			"locale", locale,
			"error", err,
		)
		return snap, nil
	}
	s.bypass = false

	logger.Debug("export snapshot computed",
		"module", "cache",
		"action", "compute",
		"resource", "export",
		"result", "ok",
		"locale", locale,
		"keys", snap.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// Invalidate discards the snapshot for locale regardless of its remaining TTL
// and preempts any computation already in flight.
func (c *ExportCache) Invalidate(ctx context.Context, locale string) {
	s := c.acquire(locale)
	defer c.release(s)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if err := c.store.Delete(ctx, locale); err != nil {
		s.bypass = true
		c.storeErrors.Add(1)
		logger.Warn("export cache invalidation failed",
			"module", "cache",
			"action", "invalidate",
			"resource", "export",
			"result", "failed",
			"locale", locale,
			"error", err,
		)
	}
}

// Sweep evicts expired snapshots when the store holds them in process and
// forgets idle locales. It returns the number of evicted snapshots.
func (c *ExportCache) Sweep() int {
	removed := 0
	if sw, ok := c.store.(sweeper); ok {
		removed = sw.Sweep(c.now())
	}
	if pruned := c.pruneSlots(); pruned > 0 {
		logger.Debug("idle export slots dropped",
			"module", "cache",
			"action", "sweep",
			"resource", "export",
			"result", "ok",
			"slots", pruned,
		)
	}
	return removed
}

// Warm computes snapshots for the given locales concurrently.
func (c *ExportCache) Warm(ctx context.Context, locales ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWarm)

	for _, locale := range locales {
		g.Go(func() error {
			_, err := c.Get(ctx, locale)
			return err
		})
	}
	return g.Wait()
}

func (c *ExportCache) Stats() Stats {
	c.mu.Lock()
	locales := len(c.slots)
	c.mu.Unlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Discarded:   c.discarded.Load(),
		StoreErrors: c.storeErrors.Load(),
		Locales:     locales,
	}
}
