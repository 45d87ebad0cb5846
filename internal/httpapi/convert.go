package httpapi

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// statusToProto mirrors the JSON field names so both encodings read the
// same way.
func statusToProto(s types.Status) (*structpb.Struct, error) {
	fields := map[string]any{
		"session_id":  s.SessionID,
		"state":       s.State,
		"door_locked": s.DoorLocked,
		"uptime_ms":   s.UptimeMS,
		"credentials": s.Credentials,
	}
	if s.LastDecision != types.DecisionNone {
		fields["last_decision"] = string(s.LastDecision)
		fields["last_decision_ms"] = s.LastDecisionMS
	}
	if s.Fatal != "" {
		fields["fatal"] = s.Fatal
	}
	return structpb.NewStruct(fields)
}
