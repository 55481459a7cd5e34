package service

import (
	"sync"
	"time"

	"auction-tool-backend/internal/common/logger"
)

// Scheduler owns one armed timer per open auction and fires the engine's
// finalize transition when a deadline elapses. Every outstanding timer is
// tracked by auction id so it can be cancelled explicitly (forced close) and
// so the whole set can be reconstructed deterministically at startup.
type Scheduler struct {
	clock Clock
	fire  func(auctionID string)

	mu     sync.Mutex
	timers map[string]Timer
}

// NewScheduler creates a scheduler that calls fire with the auction id when
// a deadline elapses. fire must be idempotent: a timer firing concurrently
// with a cancellation resolves inside the engine's per-auction critical
// section, not here.
func NewScheduler(clock Clock, fire func(auctionID string)) *Scheduler {
	return &Scheduler{
		clock:  clock,
		fire:   fire,
		timers: make(map[string]Timer),
	}
}

// Register arms a one-shot trigger for the auction's deadline. A deadline
// already in the past fires synchronously, which is how records with elapsed
// deadlines are finalized during restart recovery.
func (s *Scheduler) Register(auctionID string, endTime time.Time) {
	delay := endTime.Sub(s.clock.Now())
	if delay <= 0 {
		logger.Info().
			Str("auction_id", auctionID).
			Msg("Deadline already elapsed, finalizing immediately")
		s.fire(auctionID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.timers[auctionID]; exists {
		return
	}

	s.timers[auctionID] = s.clock.Schedule(delay, func() {
		s.onFire(auctionID)
	})

	logger.Debug().
		Str("auction_id", auctionID).
		Dur("delay", delay).
		Msg("Auction timer armed")
}

func (s *Scheduler) onFire(auctionID string) {
	s.mu.Lock()
	delete(s.timers, auctionID)
	s.mu.Unlock()

	s.fire(auctionID)
}

// Cancel stops a still-armed trigger. It reports false when no timer was
// armed, including the case where the trigger already fired.
func (s *Scheduler) Cancel(auctionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[auctionID]
	if !ok {
		return false
	}
	delete(s.timers, auctionID)
	return t.Stop()
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

// Shutdown cancels every armed timer.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
