package service

import "time"

// Clock supplies the current time and a cancellable delayed-execution
// primitive. The engine and scheduler never touch the time package directly,
// so tests can drive expiry deterministically.
type Clock interface {
	Now() time.Time
	// Schedule runs fn after d on its own goroutine. The returned Timer can
	// cancel the execution if it has not started yet.
	Schedule(d time.Duration, fn func()) Timer
}

// Timer is a one-shot delayed trigger. Stop reports whether it prevented the
// trigger from firing.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Schedule(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
