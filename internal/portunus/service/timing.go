package service

import "time"

// Timing holds the controller's time constants. All of them are
// configuration; DefaultTiming matches the deployed hardware.
type Timing struct {
	// Cooldown suppresses a repeated read of the same credential.
	Cooldown time.Duration

	// HoldPhase is how long the solenoid stays powered after an unlock
	// regardless of the door sensor.
	HoldPhase time.Duration

	// MaxUnlock is the hard bound on solenoid power after an unlock.
	MaxUnlock time.Duration

	StrongPulse time.Duration // full-power kick before the weak hold
	DeniedHold  time.Duration // red indicator hold for a denied credential
	LogSettle   time.Duration // hold after an audit append
	ReadTimeout time.Duration // bound on one card read
	LoopDelay   time.Duration // pause at the end of each iteration
	IgnoreDelay time.Duration // pause after a read suppressed by cooldown
}

func DefaultTiming() Timing {
	return Timing{
		Cooldown:    2000 * time.Millisecond,
		HoldPhase:   5000 * time.Millisecond,
		MaxUnlock:   10000 * time.Millisecond,
		StrongPulse: 300 * time.Millisecond,
		DeniedHold:  1000 * time.Millisecond,
		LogSettle:   300 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		LoopDelay:   10 * time.Millisecond,
		IgnoreDelay: 50 * time.Millisecond,
	}
}
