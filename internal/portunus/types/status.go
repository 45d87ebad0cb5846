package types

// Status is a point-in-time view of the controller for read-only observers.
type Status struct {
	SessionID      uint32   `json:"session_id"`
	State          string   `json:"state"`
	DoorLocked     bool     `json:"door_locked"`
	UptimeMS       uint32   `json:"uptime_ms"`
	Credentials    int      `json:"credentials"`
	LastDecision   Decision `json:"last_decision,omitempty"`
	LastDecisionMS uint32   `json:"last_decision_ms,omitempty"`
	Fatal          string   `json:"fatal,omitempty"`
}
