package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

func TestOpenJournal_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := openJournal(context.Background(), filepath.Join(blocker, "journal.db")); err == nil {
		t.Fatal("expected error for a journal path under a regular file")
	}
}

func TestOpenJournal_RecordsAndReadsBack(t *testing.T) {
	ctx := context.Background()
	h, err := openJournal(ctx, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("openJournal: %v", err)
	}
	defer h.Close()

	if err := h.journal.RecordGrant(ctx, types.GrantRecord{
		AuditEntry: types.AuditEntry{SessionID: 3, ElapsedMS: 1500, Credential: "04a1b2c3"},
	}); err != nil {
		t.Fatalf("RecordGrant: %v", err)
	}

	got, err := h.journal.GrantsForSession(ctx, 3)
	if err != nil {
		t.Fatalf("GrantsForSession: %v", err)
	}
	if len(got) != 1 || got[0].Credential != "04a1b2c3" {
		t.Errorf("unexpected grants %v", got)
	}
}
