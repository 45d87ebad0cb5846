// Package clock provides the time source for the lock controller.
//
// Production code receives Real(); tests receive Fake(), whose Sleep
// advances the fake time instead of blocking. Because the controller is a
// single cooperative loop, a sleeping caller is the only thing that can
// move time forward, so Fake never needs to wait on other goroutines.
package clock

import "time"

// Clock abstracts the two time operations the control loop needs.
type Clock interface {
	// Now returns the current time. Differences between two readings are
	// monotonic.
	Now() time.Time

	// Sleep blocks the caller for at least d.
	Sleep(d time.Duration)
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
