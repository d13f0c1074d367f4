package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry is the append-only summary written once per import run.
type ImportLogEntry struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Supplier       string    `json:"supplier" db:"supplier"`
	Imported       int       `json:"imported" db:"imported"`
	Updated        int       `json:"updated" db:"updated"`
	TotalProcessed int       `json:"totalProcessed" db:"total_processed"`
	Errors         int       `json:"errors" db:"errors"`
	PerformedBy    string    `json:"performedBy" db:"performed_by"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// AuditEntry is one best-effort record of a privileged admin call.
type AuditEntry struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	AdminUID  string         `json:"adminUid" db:"admin_uid"`
	Action    string         `json:"action" db:"action"`
	Details   map[string]any `json:"details" db:"details"`
	IP        string         `json:"ip" db:"ip"`
	UserAgent string         `json:"userAgent" db:"user_agent"`
	Timestamp time.Time      `json:"timestamp" db:"timestamp"`
}
