package scheduler

import (
	"sync"
	"time"

	"transcatalog/internal/cache"
	"transcatalog/internal/logger"
)

// Sweeper evicts expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
	Stats() cache.Stats
}

type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "sweep", "resource", "export", "result", "ok", "interval_ms", s.interval.Milliseconds())
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "sweep", "resource", "export", "result", "ok")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) sweep() {
	removed := s.sweeper.Sweep()
	stats := s.sweeper.Stats()
	logger.Debug("expired exports swept",
		"module", "scheduler",
		"action", "sweep",
		"resource", "export",
		"result", "ok",
		"removed", removed,
		"locales", stats.Locales,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"discarded", stats.Discarded,
		"store_errors", stats.StoreErrors,
	)
}
