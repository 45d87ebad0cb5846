package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/memory"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

func newTestAuditLog(v *memory.Volume) (*store.AuditLog, *clock.FakeClock) {
	c := clock.Fake(time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC))
	return store.NewAuditLog(v, "log.csv", c, 300*time.Millisecond), c
}

func TestEnsureHeader_WritesOnceOnEmptyLog(t *testing.T) {
	v := memory.NewVolume()
	l, _ := newTestAuditLog(v)

	wrote, err := l.EnsureHeader()
	if err != nil || !wrote {
		t.Fatalf("first EnsureHeader: wrote=%v err=%v", wrote, err)
	}
	wrote, err = l.EnsureHeader()
	if err != nil || wrote {
		t.Fatalf("second EnsureHeader: wrote=%v err=%v", wrote, err)
	}

	if got, _ := v.ReadFile("log.csv"); got != "boot_id,elapsed_ms,uid\n" {
		t.Errorf("unexpected log %q", got)
	}
}

func TestEnsureHeader_ExistingEmptyFile(t *testing.T) {
	v := memory.NewVolume()
	v.WriteFile("log.csv", "")
	l, _ := newTestAuditLog(v)

	if wrote, err := l.EnsureHeader(); err != nil || !wrote {
		t.Fatalf("EnsureHeader: wrote=%v err=%v", wrote, err)
	}
}

func TestEnsureHeader_KeepsExistingLog(t *testing.T) {
	v := memory.NewVolume()
	v.WriteFile("log.csv", "boot_id,elapsed_ms,uid\n3,1200,04a1b2c3\n")
	l, _ := newTestAuditLog(v)

	if _, err := l.EnsureHeader(); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	if got, _ := v.ReadFile("log.csv"); got != "boot_id,elapsed_ms,uid\n3,1200,04a1b2c3\n" {
		t.Errorf("log was modified: %q", got)
	}
}

func TestEnsureHeader_OpenFailure(t *testing.T) {
	v := memory.NewVolume()
	v.Fail(memory.OpAppend, "log.csv")
	l, _ := newTestAuditLog(v)

	if _, err := l.EnsureHeader(); !errors.Is(err, store.ErrLogHeader) {
		t.Fatalf("expected ErrLogHeader, got %v", err)
	}
}

func TestAppend_WritesLineAndHoldsCaller(t *testing.T) {
	v := memory.NewVolume()
	l, c := newTestAuditLog(v)
	if _, err := l.EnsureHeader(); err != nil {
		t.Fatal(err)
	}

	err := l.Append(types.AuditEntry{SessionID: 12, ElapsedMS: 34567, Credential: "04a1b2c3"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := "boot_id,elapsed_ms,uid\n12,34567,04a1b2c3\n"
	if got, _ := v.ReadFile("log.csv"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if c.Slept() != 300*time.Millisecond {
		t.Errorf("expected 300ms settle hold, got %s", c.Slept())
	}
}

func TestAppend_FailureDoesNotHold(t *testing.T) {
	v := memory.NewVolume()
	v.Fail(memory.OpWrite, "log.csv")
	l, c := newTestAuditLog(v)

	err := l.Append(types.AuditEntry{SessionID: 1, ElapsedMS: 1, Credential: "ab"})
	if !errors.Is(err, store.ErrAuditAppend) {
		t.Fatalf("expected ErrAuditAppend, got %v", err)
	}
	if c.Slept() != 0 {
		t.Errorf("expected no hold after failure, got %s", c.Slept())
	}
}
