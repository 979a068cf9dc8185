// Package clock provides the scheduling primitives the parking core runs on:
// one-shot delays, fixed-interval tickers and a single logical thread that
// serializes user intents with timer callbacks.
package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running again. It reports whether
	// the call stopped a callback that had not run yet (for one-shot timers)
	// or an active ticker.
	Stop() bool
}

// Scheduler is the only time source the core depends on.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	Every(interval time.Duration, fn func()) Timer
}

// Stop stops t if it is non-nil. It returns nil so callers can clear their
// handle in one statement: e.pending = clock.Stop(e.pending).
func Stop(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
