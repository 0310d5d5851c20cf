package calculatorx

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// call stopped the timer.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules callbacks with time.AfterFunc. Callbacks run on
// their own goroutine.
var SystemClock Clock = systemClock{}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func(d time.Duration, f func()) Timer

func (fn ClockFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}
