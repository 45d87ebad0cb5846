package store

import (
	"fmt"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// AuditHeader is the first line of every audit log.
const AuditHeader = "boot_id,elapsed_ms,uid\n"

// AuditLog is the append-only CSV record of granted unlocks.
type AuditLog struct {
	volume Volume
	name   string
	clock  clock.Clock
	settle time.Duration
}

// NewAuditLog returns an AuditLog writing to name on v. After every
// successful append the caller is held for settle so the medium can finish
// the write before the next operation.
func NewAuditLog(v Volume, name string, c clock.Clock, settle time.Duration) *AuditLog {
	return &AuditLog{volume: v, name: name, clock: c, settle: settle}
}

// EnsureHeader writes the header if the log is missing or empty. It
// reports whether the header was written.
func (l *AuditLog) EnsureHeader() (bool, error) {
	if size, err := l.volume.Size(l.name); err == nil && size > 0 {
		return false, nil
	}
	if err := l.write(AuditHeader); err != nil {
		return false, fmt.Errorf("%w: %v", ErrLogHeader, err)
	}
	return true, nil
}

// Append writes one entry and then blocks for the settle interval. Errors
// are returned without waiting.
func (l *AuditLog) Append(e types.AuditEntry) error {
	if err := l.write(e.Line()); err != nil {
		return fmt.Errorf("%w: %v", ErrAuditAppend, err)
	}
	l.clock.Sleep(l.settle)
	return nil
}

func (l *AuditLog) write(s string) error {
	f, err := l.volume.Append(l.name)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.name, err)
	}
	if _, err := f.Write([]byte(s)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", l.name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", l.name, err)
	}
	return nil
}
