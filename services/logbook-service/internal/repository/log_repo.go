package repository

import (
	"context"
	"database/sql"
	"fmt"

	"voltlog/services/logbook-service/internal/models"
)

// LogRepository persists finalized sessions.
type LogRepository struct {
	db *sql.DB
}

// NewLogRepository returns repository.
func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// InsertBatch writes all entries of a run in one transaction. Either every
// entry exists afterwards or none does; the resume-point computation in the
// fetch query depends on that.
func (r *LogRepository) InsertBatch(ctx context.Context, entries []models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("logs: begin batch: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO logs (akey, start_time, end_time, charge, title, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("logs: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.AKey, entry.Start, entry.End, entry.Charge, entry.Title); err != nil {
			return fmt.Errorf("logs: insert entry for %s: %w", entry.AKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("logs: commit batch: %w", err)
	}
	return nil
}
