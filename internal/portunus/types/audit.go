package types

import (
	"strconv"
	"time"
)

// AuditEntry is one granted unlock as written to the audit log.
type AuditEntry struct {
	SessionID  uint32
	ElapsedMS  uint32 // milliseconds since boot, wraps like the device counter
	Credential Credential
}

// Line renders the entry in the audit log's CSV form, newline included.
func (e AuditEntry) Line() string {
	return strconv.FormatUint(uint64(e.SessionID), 10) + "," +
		strconv.FormatUint(uint64(e.ElapsedMS), 10) + "," +
		string(e.Credential) + "\n"
}

// ReleaseRecord describes the end of one unlock cycle. It is only kept in
// the event journal; the audit log format has no place for it.
type ReleaseRecord struct {
	SessionID  uint32
	StartedMS  uint32
	ReleasedMS uint32
	Reason     ReleaseReason
	RecordedAt time.Time
}

// GrantRecord is an AuditEntry stamped with wall-clock time for the
// event journal.
type GrantRecord struct {
	AuditEntry
	RecordedAt time.Time
}
