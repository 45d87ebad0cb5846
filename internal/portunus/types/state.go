package types

// State is the controller's position in the unlock cycle. Cooldown is not
// a state of its own; it is the last-seen credential carried by Idle.
type State int

const (
	StateIdle State = iota
	StateUnlocking
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUnlocking:
		return "unlocking"
	default:
		return "unknown"
	}
}

// Decision is the outcome of handling one card read.
type Decision string

const (
	DecisionNone    Decision = ""
	DecisionGranted Decision = "granted"
	DecisionDenied  Decision = "denied"
	DecisionIgnored Decision = "ignored" // same card inside the cooldown window
)

// ReleaseReason says why the solenoid was powered down at the end of an
// unlock cycle.
type ReleaseReason string

const (
	ReleaseDoorOpened ReleaseReason = "door_opened"
	ReleaseTimeout    ReleaseReason = "timeout"
)
