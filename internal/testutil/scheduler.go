// Package testutil holds deterministic stand-ins for the engine's
// time and identifier seams.
package testutil

import (
	"sync"
	"time"
)

// ManualScheduler collects deferred callbacks and fires them only
// when the test says so. Replaces the runtime timer so tests never
// sleep through the simulated payment latency.
//
// Thread-safe; callbacks run on the goroutine that calls Fire.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After records fn without scheduling anything. The delay is ignored.
func (s *ManualScheduler) After(_ time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
}

// Pending returns the number of recorded callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Fire runs and removes the oldest callback. No-op when empty.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	fn := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	fn()
}

// FireAll runs every recorded callback in order.
func (s *ManualScheduler) FireAll() {
	for s.Pending() > 0 {
		s.Fire()
	}
}

// FixedIDSource returns the same order id every time.
type FixedIDSource struct {
	ID string
}

// NewOrderID returns the fixed id.
func (f FixedIDSource) NewOrderID() string { return f.ID }

// FixedNow returns a clock function pinned to t.
func FixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
