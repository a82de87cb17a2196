package core

import "time"

// Clock supplies monotonic time to the step pacing loop. Targets may
// substitute a hardware timer; tests substitute a fake.
type Clock interface {
	// Micros returns microseconds since an arbitrary fixed origin.
	// The value must be monotonic; it never follows wall-clock jumps.
	Micros() int64

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// systemClock is the portable Clock backed by the Go runtime.
type systemClock struct {
	origin time.Time
}

// SystemClock returns a monotonic clock with its origin at the call.
// This is the default pacing source on hosts and on targets without a
// dedicated hardware timer.
func SystemClock() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Micros() int64 {
	return time.Since(c.origin).Microseconds()
}

func (c *systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
