package main

import (
	"context"
	"database/sql"

	"github.com/BrandonDHaskell/Portunus/controller/internal/db"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/sqlite"
)

// journalHandle owns the journal database and its write worker.
type journalHandle struct {
	db      *sql.DB
	writer  *db.Worker
	journal *sqlite.Journal
}

func openJournal(ctx context.Context, path string) (*journalHandle, error) {
	sqlDB, err := db.Open(ctx, db.Config{Path: path})
	if err != nil {
		return nil, err
	}
	writer := db.NewWorker(sqlDB)
	return &journalHandle{
		db:      sqlDB,
		writer:  writer,
		journal: sqlite.NewJournal(sqlDB, writer),
	}, nil
}

// Close drains pending writes before closing the database.
func (h *journalHandle) Close() {
	h.writer.Close()
	_ = h.db.Close()
}
