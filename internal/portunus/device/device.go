// Package device declares the hardware the lock controller drives. Drivers
// for a concrete board live outside this module; device/sim provides an
// in-memory board for tests and bench runs.
package device

import "time"

// CardReader is a proximity-card reader.
type CardReader interface {
	// Identify returns the reader's firmware identity. A zero identity or
	// an error means the reader is not usable.
	Identify() (uint32, error)

	// TryRead waits at most timeout for a tag and returns its UID. A failed
	// read is reported the same as no tag.
	TryRead(timeout time.Duration) ([]byte, bool)
}

// DoorSensor reports the door position.
type DoorSensor interface {
	IsLocked() bool
}

// Solenoid is the lock actuator. StrongPulse drives it at full power,
// WeakHold at the reduced sustaining level.
type Solenoid interface {
	StrongPulse()
	WeakHold()
	Off()
}

// Pixel is a single RGB indicator LED.
type Pixel interface {
	Set(r, g, b uint8)
}
