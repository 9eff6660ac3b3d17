package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
)

const timeEntryColumns = `id, project_id, task_id, employee, hours, entry_date, description, created_at`

// SQLiteTimeEntryRepo implements TimeEntryRepo over a SQLite database or
// transaction.
type SQLiteTimeEntryRepo struct {
	db db.DBTX
}

// NewSQLiteTimeEntryRepo creates a new SQLiteTimeEntryRepo.
func NewSQLiteTimeEntryRepo(dbtx db.DBTX) *SQLiteTimeEntryRepo {
	return &SQLiteTimeEntryRepo{db: dbtx}
}

func (r *SQLiteTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (` + timeEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		e.TaskID,
		e.Employee,
		e.Hours,
		e.Date.Format(dateLayout),
		e.Description,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE project_id = ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, projectID)
}

func (r *SQLiteTimeEntryRepo) ListByTask(ctx context.Context, projectID, taskID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE project_id = ? AND task_id = ? ORDER BY entry_date, created_at`
	return r.queryEntries(ctx, query, projectID, taskID)
}

func (r *SQLiteTimeEntryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	return requireRow(res, "time entry", id)
}

func (r *SQLiteTimeEntryRepo) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		var dateStr, createdAtStr string
		if err := rows.Scan(
			&e.ID, &e.ProjectID, &e.TaskID, &e.Employee,
			&e.Hours, &dateStr, &e.Description, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		var parseErr error
		e.Date, parseErr = time.Parse(dateLayout, dateStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing entry_date: %w", parseErr)
		}
		e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}
