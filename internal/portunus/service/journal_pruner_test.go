package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/memory"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

func TestJournalPruner_DisabledWhenRetentionZero(t *testing.T) {
	j := memory.NewJournal()
	pruner := service.NewJournalPruner(j, service.PrunerConfig{
		RetentionDays: 0,
		IntervalHours: 1,
	}, clock.Fake(epoch), silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pruner.Start(ctx)
	// Stop should return immediately without error.
	pruner.Stop()
}

func TestJournalPruner_CutoffFollowsInjectedClock(t *testing.T) {
	j := memory.NewJournal()
	ctx := context.Background()

	// Both records are years in the past by wall time; only the injected
	// clock decides which one is stale.
	past := epoch.AddDate(-5, 0, 0)
	c := clock.Fake(past)

	_ = j.RecordGrant(ctx, types.GrantRecord{
		AuditEntry: types.AuditEntry{SessionID: 1, Credential: "aa"},
		RecordedAt: past.AddDate(0, 0, -31),
	})
	_ = j.RecordGrant(ctx, types.GrantRecord{
		AuditEntry: types.AuditEntry{SessionID: 2, Credential: "bb"},
		RecordedAt: past.AddDate(0, 0, -29),
	})
	_ = j.RecordRelease(ctx, types.ReleaseRecord{
		SessionID:  1,
		Reason:     types.ReleaseTimeout,
		RecordedAt: past.AddDate(0, 0, -31),
	})

	pruner := service.NewJournalPruner(j, service.PrunerConfig{
		RetentionDays: 30,
		IntervalHours: 24,
	}, c, silentLogger())
	pruner.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for len(j.Releases()) != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	pruner.Stop()

	grants := j.Grants()
	if len(grants) != 1 || grants[0].Credential != "bb" {
		t.Errorf("expected only the grant inside retention to survive, got %v", grants)
	}
	if len(j.Releases()) != 0 {
		t.Errorf("expected stale release pruned, got %v", j.Releases())
	}
}

func TestJournalPruner_StopIsIdempotent(t *testing.T) {
	pruner := service.NewJournalPruner(memory.NewJournal(), service.PrunerConfig{
		RetentionDays: 30,
		IntervalHours: 1,
	}, clock.Fake(epoch), silentLogger())

	ctx, cancel := context.WithCancel(context.Background())
	pruner.Start(ctx)

	cancel()
	// Multiple stops should not panic.
	pruner.Stop()
	pruner.Stop()
}
