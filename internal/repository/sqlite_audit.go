package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
)

const auditColumns = `id, actor, action, entity_type, entity_id, detail, created_at`

// SQLiteAuditRepo implements AuditRepo over a SQLite database or transaction.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(dbtx db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: dbtx}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Actor,
		e.Action,
		e.EntityType,
		e.EntityID,
		e.Detail,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) List(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + auditColumns + ` FROM audit_log`
	args := []any{}
	if entityType != "" && entityID != "" {
		query += ` WHERE entity_type = ? AND entity_id = ?`
		args = append(args, entityType, entityID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var createdAtStr string
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		var parseErr error
		e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
