// Package scheduler runs the one-shot deferred-delivery timers behind
// send-later and standup flushes. Each scheduled item fires exactly once on
// its own timer goroutine; there is no per-item cancellation, matching the
// system's contract that a scheduled effect is unconditional while the
// process lives.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler tracks in-flight one-shot timers
type Scheduler struct {
	logger  *slog.Logger
	pending map[int64]*time.Timer
	nextID  int64
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// New creates a scheduler. A nil logger discards output.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		logger:  logger,
		pending: make(map[int64]*time.Timer),
	}
}

// Schedule runs fn once after delay. Delays at or below zero fire
// immediately. The callback runs on its own goroutine concurrently with
// everything else; whatever it touches must take its own locks.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.wg.Add(1)
	s.logger.Debug("scheduling deferred task", "delay", delay)

	s.pending[id] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		fn()
	})
}

// Wait blocks until every scheduled task has fired and returned. Intended
// for tests; new tasks may still be scheduled while waiting.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Stop cancels every timer that has not fired yet and waits for callbacks
// already running to return. For shutdown: the state the timers would have
// mutated dies with the process anyway.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
