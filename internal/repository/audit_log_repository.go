package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"dupp-api/internal/domain"
)

// AuditLogRepository appends admin audit entries. Callers treat writes as
// best-effort; the repository itself reports failures normally.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

type auditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new instance of AuditLogRepository
func NewAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create appends one audit entry
func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO admin_audit_log (id, admin_uid, action, details, ip, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.AdminUID,
		entry.Action,
		details,
		entry.IP,
		entry.UserAgent,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}
