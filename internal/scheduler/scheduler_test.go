package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"transcatalog/internal/cache"

	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls      atomic.Int64
	statsCalls atomic.Int64
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func (c *countingSweeper) Stats() cache.Stats {
	c.statsCalls.Add(1)
	return cache.Stats{Locales: 1}
}

func TestScheduler_SweepsUntilStopped(t *testing.T) {
	sw := &countingSweeper{}
	s := New(sw, 10*time.Millisecond)
	s.Start()

	require.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.Positive(t, sw.statsCalls.Load())

	s.Stop()
	stopped := sw.calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, stopped, sw.calls.Load())

	// A second Stop is harmless.
	s.Stop()
}
