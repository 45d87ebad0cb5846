package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// Journal is an in-memory store.EventJournal.
// It is intended for use in tests and dev environments.
type Journal struct {
	mu       sync.Mutex
	grants   []types.GrantRecord
	releases []types.ReleaseRecord
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) RecordGrant(_ context.Context, rec types.GrantRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.grants = append(j.grants, rec)
	return nil
}

func (j *Journal) RecordRelease(_ context.Context, rec types.ReleaseRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.releases = append(j.releases, rec)
	return nil
}

func (j *Journal) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var deleted int64
	grants := j.grants[:0]
	for _, g := range j.grants {
		if g.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		grants = append(grants, g)
	}
	j.grants = grants

	releases := j.releases[:0]
	for _, r := range j.releases {
		if r.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		releases = append(releases, r)
	}
	j.releases = releases
	return deleted, nil
}

// Grants returns a copy of all recorded grants.  Test-only helper.
func (j *Journal) Grants() []types.GrantRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]types.GrantRecord, len(j.grants))
	copy(out, j.grants)
	return out
}

// Releases returns a copy of all recorded releases.  Test-only helper.
func (j *Journal) Releases() []types.ReleaseRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]types.ReleaseRecord, len(j.releases))
	copy(out, j.releases)
	return out
}
