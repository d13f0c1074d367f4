package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dupp-api/internal/domain"
)

// ImportLogRepository appends import run summaries. Entries are never
// mutated.
type ImportLogRepository interface {
	Create(ctx context.Context, entry *domain.ImportLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]*domain.ImportLogEntry, error)
}

type importLogRepository struct {
	db *sql.DB
}

// NewImportLogRepository creates a new instance of ImportLogRepository
func NewImportLogRepository(db *sql.DB) ImportLogRepository {
	return &importLogRepository{db: db}
}

// Create appends one import log entry
func (r *importLogRepository) Create(ctx context.Context, entry *domain.ImportLogEntry) error {
	query := `
		INSERT INTO import_logs (id, supplier, imported, updated, total_processed, errors, performed_by, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Supplier,
		entry.Imported,
		entry.Updated,
		entry.TotalProcessed,
		entry.Errors,
		entry.PerformedBy,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create import log entry: %w", err)
	}

	return nil
}

// ListRecent returns the most recent import runs, newest first
func (r *importLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ImportLogEntry, error) {
	query := `
		SELECT id, supplier, imported, updated, total_processed, errors, performed_by, timestamp
		FROM import_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	entries := []*domain.ImportLogEntry{}
	for rows.Next() {
		entry := &domain.ImportLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Supplier,
			&entry.Imported,
			&entry.Updated,
			&entry.TotalProcessed,
			&entry.Errors,
			&entry.PerformedBy,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import logs: %w", err)
	}

	return entries, nil
}
