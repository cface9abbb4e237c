package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"transcatalog/internal/cache"
	"transcatalog/internal/model"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// memLoader serves translations from a mutable in-memory table.
type memLoader struct {
	mu    sync.Mutex
	rows  []model.Translation
	calls atomic.Int64
	// gate, when set, blocks the first load until closed.
	gate    chan struct{}
	entered chan struct{}
	err     error
}

func (l *memLoader) ListByLocale(_ context.Context, locale string) ([]model.Translation, error) {
	n := l.calls.Add(1)
	l.mu.Lock()
	var out []model.Translation
	for _, r := range l.rows {
		if r.Locale == locale {
			out = append(out, r)
		}
	}
	gate, entered, err := l.gate, l.entered, l.err
	l.mu.Unlock()

	if n == 1 && gate != nil {
		if entered != nil {
			close(entered)
		}
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *memLoader) set(rows ...model.Translation) {
	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
}

func tr(key, locale, content string) model.Translation {
	return model.Translation{Key: key, Locale: locale, Content: content}
}

func TestExportCache_MissThenHit(t *testing.T) {
	loader := &memLoader{}
	loader.set(tr("greeting", "en", "Hello"), tr("bye", "en", "Bye"), tr("greeting", "fr", "Bonjour"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"greeting": "Hello", "bye": "Bye"}, snap.Entries)
	require.JSONEq(t, `{"greeting":"Hello","bye":"Bye"}`, string(snap.Body))

	again, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Same(t, snap, again)
	require.Equal(t, int64(1), loader.calls.Load())

	stats := c.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
}

func TestExportCache_EmptyLocale(t *testing.T) {
	c := cache.NewExportCache(&memLoader{})

	snap, err := c.Get(context.Background(), "de")
	require.NoError(t, err)
	require.Zero(t, snap.Len())
	require.Equal(t, "{}", string(snap.Body))
}

func TestExportCache_DuplicateKeysLastWins(t *testing.T) {
	loader := &memLoader{}
	loader.set(tr("dup", "en", "first"), tr("other", "en", "x"), tr("dup", "en", "second"))
	c := cache.NewExportCache(loader)

	snap, err := c.Get(context.Background(), "en")
	require.NoError(t, err)
	require.Equal(t, "second", snap.Entries["dup"])
	require.Equal(t, 2, snap.Len())
}

func TestExportCache_TTL(t *testing.T) {
	clock := newFakeClock()
	loader := &memLoader{}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader, cache.WithClock(clock.Now))
	ctx := context.Background()

	first, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, clock.Now().Add(60*time.Second), first.ExpiresAt)

	// A write that skips invalidation stays invisible within the TTL.
	loader.set(tr("greeting", "en", "Hi"))
	clock.Advance(59 * time.Second)
	second, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, first.Body, second.Body)

	clock.Advance(2 * time.Second)
	third, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", third.Entries["greeting"])
	require.Equal(t, int64(2), loader.calls.Load())
}

func TestExportCache_CustomTTL(t *testing.T) {
	clock := newFakeClock()
	loader := &memLoader{}
	c := cache.NewExportCache(loader, cache.WithClock(clock.Now), cache.WithTTL(5*time.Second))

	_, err := c.Get(context.Background(), "en")
	require.NoError(t, err)
	clock.Advance(5 * time.Second)
	_, err = c.Get(context.Background(), "en")
	require.NoError(t, err)
	require.Equal(t, int64(2), loader.calls.Load())
}

func TestExportCache_InvalidateWithinTTL(t *testing.T) {
	loader := &memLoader{}
	loader.set(tr("greeting", "en", "Hello"), tr("greeting", "fr", "Bonjour"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	_, err := c.Get(ctx, "en")
	require.NoError(t, err)
	fr, err := c.Get(ctx, "fr")
	require.NoError(t, err)

	loader.set(tr("greeting", "en", "Hi"), tr("greeting", "fr", "Bonjour"))
	c.Invalidate(ctx, "en")

	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", snap.Entries["greeting"])

	// Other locales keep their snapshot.
	frAgain, err := c.Get(ctx, "fr")
	require.NoError(t, err)
	require.Same(t, fr, frAgain)
}

func TestExportCache_InvalidatePreemptsInFlightStore(t *testing.T) {
	loader := &memLoader{gate: make(chan struct{}), entered: make(chan struct{})}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	type result struct {
		snap *cache.Snapshot
		err  error
	}
	stale := make(chan result, 1)
	go func() {
		snap, err := c.Get(ctx, "en")
		stale <- result{snap, err}
	}()
	<-loader.entered

	// The mutation commits and invalidates while the first load is blocked.
	loader.set(tr("greeting", "en", "Hi"))
	c.Invalidate(ctx, "en")

	fresh, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", fresh.Entries["greeting"])

	close(loader.gate)
	r := <-stale
	require.NoError(t, r.err)
	require.Equal(t, "Hello", r.snap.Entries["greeting"])

	// The stale computation finished last but must not have been stored.
	after, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", after.Entries["greeting"])
	require.Same(t, fresh, after)
	require.Equal(t, int64(1), c.Stats().Discarded)
}

func TestExportCache_InvalidateDuringLoadWithoutLaterReader(t *testing.T) {
	loader := &memLoader{gate: make(chan struct{}), entered: make(chan struct{})}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(ctx, "en")
	}()
	<-loader.entered
	loader.set(tr("greeting", "en", "Hi"))
	c.Invalidate(ctx, "en")
	close(loader.gate)
	<-done

	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", snap.Entries["greeting"])
	require.Equal(t, int64(2), loader.calls.Load())
}

func TestExportCache_ConcurrentMissesShareComputation(t *testing.T) {
	loader := &memLoader{gate: make(chan struct{}), entered: make(chan struct{})}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	snaps := make([]*cache.Snapshot, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i], errs[i] = c.Get(ctx, "en")
		}()
	}

	<-loader.entered
	time.Sleep(100 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "Hello", snaps[i].Entries["greeting"])
	}
	require.Equal(t, int64(1), loader.calls.Load())
}

func TestExportCache_LoaderErrorNotCached(t *testing.T) {
	loader := &memLoader{err: errors.New("disk on fire")}
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	_, err := c.Get(ctx, "en")
	require.ErrorContains(t, err, "disk on fire")

	loader.mu.Lock()
	loader.err = nil
	loader.mu.Unlock()
	loader.set(tr("k", "en", "v"))

	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "v", snap.Entries["k"])
}

// failingStore fails the operations selected by its flags and otherwise
// behaves like a memory store.
type failingStore struct {
	*cache.MemoryStore
	failGet, failSet, failDelete atomic.Bool
}

func (s *failingStore) Get(ctx context.Context, locale string) (*cache.Snapshot, bool, error) {
	if s.failGet.Load() {
		return nil, false, errors.New("get failed")
	}
	return s.MemoryStore.Get(ctx, locale)
}

func (s *failingStore) Set(ctx context.Context, snap *cache.Snapshot, ttl time.Duration) error {
	if s.failSet.Load() {
		return errors.New("set failed")
	}
	return s.MemoryStore.Set(ctx, snap, ttl)
}

func (s *failingStore) Delete(ctx context.Context, locale string) error {
	if s.failDelete.Load() {
		return errors.New("delete failed")
	}
	return s.MemoryStore.Delete(ctx, locale)
}

func TestExportCache_StoreWriteFailureDegradesToRecompute(t *testing.T) {
	store := &failingStore{MemoryStore: cache.NewMemoryStore()}
	store.failSet.Store(true)
	loader := &memLoader{}
	loader.set(tr("k", "en", "v"))
	c := cache.NewExportCache(loader, cache.WithStore(store))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap, err := c.Get(ctx, "en")
		require.NoError(t, err)
		require.Equal(t, "v", snap.Entries["k"])
	}
	require.Equal(t, int64(3), loader.calls.Load())
	require.Equal(t, int64(3), c.Stats().StoreErrors)
}

func TestExportCache_StoreReadFailureDegradesToRecompute(t *testing.T) {
	store := &failingStore{MemoryStore: cache.NewMemoryStore()}
	loader := &memLoader{}
	loader.set(tr("k", "en", "v"))
	c := cache.NewExportCache(loader, cache.WithStore(store))
	ctx := context.Background()

	_, err := c.Get(ctx, "en")
	require.NoError(t, err)
	store.failGet.Store(true)
	_, err = c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, int64(2), loader.calls.Load())
}

func TestExportCache_FailedInvalidationBypassesStaleSnapshot(t *testing.T) {
	store := &failingStore{MemoryStore: cache.NewMemoryStore()}
	loader := &memLoader{}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader, cache.WithStore(store))
	ctx := context.Background()

	_, err := c.Get(ctx, "en")
	require.NoError(t, err)

	loader.set(tr("greeting", "en", "Hi"))
	store.failDelete.Store(true)
	c.Invalidate(ctx, "en")

	// The stale snapshot is still in the store but must not be served.
	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", snap.Entries["greeting"])

	// The recompute overwrote the stale entry, so reads hit again.
	again, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Same(t, snap, again)
	require.Equal(t, int64(2), loader.calls.Load())
}

func TestExportCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	store := cache.NewMemoryStore()
	loader := &memLoader{}
	c := cache.NewExportCache(loader, cache.WithStore(store), cache.WithClock(clock.Now))
	ctx := context.Background()

	_, err := c.Get(ctx, "en")
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = c.Get(ctx, "fr")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	clock.Advance(31 * time.Second)
	require.Equal(t, 1, c.Sweep())
	require.Equal(t, 1, store.Len())
}

func TestExportCache_SweepForgetsIdleLocales(t *testing.T) {
	loader := &memLoader{}
	loader.set(tr("a", "en", "A"), tr("a", "fr", "A"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := c.Get(ctx, fmt.Sprintf("x-%d", i))
		require.NoError(t, err)
	}
	en, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, 51, c.Stats().Locales)

	c.Sweep()
	require.Zero(t, c.Stats().Locales)

	// The stored snapshot outlives its slot and invalidation still works.
	again, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Same(t, en, again)

	loader.set(tr("a", "en", "B"))
	c.Invalidate(ctx, "en")
	fresh, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "B", fresh.Entries["a"])
}

func TestExportCache_SweepKeepsLocaleWithComputationInFlight(t *testing.T) {
	loader := &memLoader{gate: make(chan struct{}), entered: make(chan struct{})}
	loader.set(tr("greeting", "en", "Hello"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(ctx, "en")
	}()
	<-loader.entered

	c.Sweep()
	require.Equal(t, 1, c.Stats().Locales)

	loader.set(tr("greeting", "en", "Hi"))
	c.Invalidate(ctx, "en")
	close(loader.gate)
	<-done

	// The invalidation reached the slot the computation started under.
	require.Equal(t, int64(1), c.Stats().Discarded)
	snap, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.Equal(t, "Hi", snap.Entries["greeting"])
}

func TestExportCache_Warm(t *testing.T) {
	loader := &memLoader{}
	loader.set(tr("a", "en", "A"), tr("a", "fr", "A"), tr("a", "es", "A"))
	c := cache.NewExportCache(loader)
	ctx := context.Background()

	require.NoError(t, c.Warm(ctx, "en", "fr", "es"))
	require.Equal(t, int64(3), loader.calls.Load())

	_, err := c.Get(ctx, "fr")
	require.NoError(t, err)
	require.Equal(t, int64(3), loader.calls.Load())
}

func TestExportCache_LargeLocale(t *testing.T) {
	const n = 10000
	rows := make([]model.Translation, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, tr(fmt.Sprintf("key_%d", i), "en", fmt.Sprintf("content %d", i)))
	}
	loader := &memLoader{}
	loader.set(rows...)
	c := cache.NewExportCache(loader)

	start := time.Now()
	snap, err := c.Get(context.Background(), "en")
	require.NoError(t, err)
	require.Less(t, time.Since(start), 500*time.Millisecond)
	require.Equal(t, n, snap.Len())
}
