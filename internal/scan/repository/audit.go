package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bridgeops/idscan-backend/pkg/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuditEntry records one terminal scan attempt. The image itself is
// never persisted; only which fields were recovered and when the bytes
// were wiped.
type AuditEntry struct {
	ID              string         `db:"id" json:"id"`
	ScanID          string         `db:"scan_id" json:"scan_id"`
	Status          string         `db:"status" json:"status"`
	DocumentType    string         `db:"document_type" json:"document_type"`
	FieldsExtracted pq.StringArray `db:"fields_extracted" json:"fields_extracted"`
	Confidence      float64        `db:"confidence" json:"confidence"`
	Attempt         int            `db:"attempt" json:"attempt"`
	DurationMs      int64          `db:"duration_ms" json:"duration_ms"`
	ErrorMessage    string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// AuditRepository persists scan audit entries
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert writes an audit entry. The ID and timestamp are assigned here
// when absent.
func (r *AuditRepository) Insert(ctx context.Context, entry *AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO scan_audit
		(id, scan_id, status, document_type, fields_extracted, confidence, attempt, duration_ms, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ScanID,
		entry.Status,
		entry.DocumentType,
		entry.FieldsExtracted,
		entry.Confidence,
		entry.Attempt,
		entry.DurationMs,
		entry.ErrorMessage,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the most recent audit entries, newest first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]AuditEntry, error) {
	query := `SELECT id, scan_id, status, document_type, fields_extracted, confidence, attempt, duration_ms, error_message, created_at
		FROM scan_audit
		ORDER BY created_at DESC
		LIMIT $1`

	var entries []AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list scan audit entries: %w", err)
	}
	return entries, nil
}
