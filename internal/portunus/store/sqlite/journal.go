package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "github.com/BrandonDHaskell/Portunus/controller/internal/db"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// Journal is the SQLite-backed store.EventJournal.
type Journal struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewJournal(db *sql.DB, writer *dbpkg.Worker) *Journal {
	return &Journal{db: db, writer: writer}
}

func (j *Journal) RecordGrant(ctx context.Context, rec types.GrantRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	recordedMs := rec.RecordedAt.UTC().UnixMilli()

	return j.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO access_grants(boot_id, elapsed_ms, card_id, recorded_at_ms)
VALUES (?, ?, ?, ?);
`, rec.SessionID, rec.ElapsedMS, string(rec.Credential), recordedMs); err != nil {
			return fmt.Errorf("RecordGrant insert: %w", err)
		}
		return nil
	})
}

func (j *Journal) RecordRelease(ctx context.Context, rec types.ReleaseRecord) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	recordedMs := rec.RecordedAt.UTC().UnixMilli()

	return j.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO unlock_releases(boot_id, started_ms, released_ms, reason, recorded_at_ms)
VALUES (?, ?, ?, ?, ?);
`, rec.SessionID, rec.StartedMS, rec.ReleasedMS, string(rec.Reason), recordedMs); err != nil {
			return fmt.Errorf("RecordRelease insert: %w", err)
		}
		return nil
	})
}

// PruneOlderThan deletes grant and release rows recorded before cutoff and
// returns the number of rows deleted.
func (j *Journal) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := j.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM access_grants WHERE recorded_at_ms < ?;`,
			`DELETE FROM unlock_releases WHERE recorded_at_ms < ?;`,
		} {
			res, err := tx.ExecContext(ctx, q, cutoffMs)
			if err != nil {
				return fmt.Errorf("PruneOlderThan: %w", err)
			}
			n, _ := res.RowsAffected()
			deleted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// GrantsForSession returns the session's grants in elapsed order.
func (j *Journal) GrantsForSession(ctx context.Context, sessionID uint32) ([]types.AuditEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
SELECT boot_id, elapsed_ms, card_id
FROM access_grants
WHERE boot_id = ?
ORDER BY elapsed_ms, id;
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("GrantsForSession query: %w", err)
	}
	defer rows.Close()

	var out []types.AuditEntry
	for rows.Next() {
		var (
			e    types.AuditEntry
			card string
		)
		if err := rows.Scan(&e.SessionID, &e.ElapsedMS, &card); err != nil {
			return nil, fmt.Errorf("GrantsForSession scan: %w", err)
		}
		e.Credential = types.Credential(card)
		out = append(out, e)
	}
	return out, rows.Err()
}
