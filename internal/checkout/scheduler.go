package checkout

import "time"

// DefaultConfirmationDelay is the simulated payment-processor latency.
const DefaultConfirmationDelay = 2 * time.Second

// Scheduler defers a single callback. The machine uses it for the
// simulated payment confirmation so tests can fire the completion
// deterministically instead of sleeping.
//
// The machine never cancels through the Scheduler: a stale callback
// is allowed to fire and is discarded by an epoch check instead.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the production Scheduler, backed by the runtime
// timer. Callbacks fire on a timer goroutine; the session engine
// serializes them behind its lock.
type TimerScheduler struct{}

// After schedules fn once after d.
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
