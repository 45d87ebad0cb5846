package store

import (
	"context"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// EventJournal is a queryable mirror of the audit trail. Unlike the CSV
// audit log it also records how each unlock cycle ended. It only ever
// holds granted unlocks.
type EventJournal interface {
	RecordGrant(ctx context.Context, rec types.GrantRecord) error
	RecordRelease(ctx context.Context, rec types.ReleaseRecord) error
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NopJournal discards everything. It is used when no journal is configured.
type NopJournal struct{}

func (NopJournal) RecordGrant(context.Context, types.GrantRecord) error     { return nil }
func (NopJournal) RecordRelease(context.Context, types.ReleaseRecord) error { return nil }
func (NopJournal) PruneOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }
