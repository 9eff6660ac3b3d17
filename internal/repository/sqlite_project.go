package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
)

const projectColumns = `id, name, description, status, budget, actual_budget, estimated_budget,
		actual_hours, progress, parent_project_id, start_date, end_date,
		tasks, task_rev, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo over a SQLite database or
// transaction.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	doc, err := domain.EncodeTasks(p.Tasks)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		string(p.Status),
		p.Budget,
		p.ActualBudget,
		p.EstimatedBudget,
		p.ActualHours,
		p.Progress,
		nullableStr(p.ParentProjectID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		string(doc),
		p.TaskRev,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`
	return r.queryProjects(ctx, query)
}

func (r *SQLiteProjectRepo) ListByParent(ctx context.Context, parentID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE parent_project_id = ? ORDER BY created_at, id`
	return r.queryProjects(ctx, query, parentID)
}

func (r *SQLiteProjectRepo) queryProjects(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, status = ?, budget = ?,
		actual_budget = ?, estimated_budget = ?, progress = ?, parent_project_id = ?,
		start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		string(p.Status),
		p.Budget,
		p.ActualBudget,
		p.EstimatedBudget,
		p.Progress,
		nullableStr(p.ParentProjectID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireRow(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) UpdateTasks(ctx context.Context, p *domain.Project, expectedRev int64) error {
	doc, err := domain.EncodeTasks(p.Tasks)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET tasks = ?, task_rev = task_rev + 1, actual_hours = ?, updated_at = ?
		WHERE id = ? AND task_rev = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(doc),
		p.ActualHours,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
		expectedRev,
	)
	if err != nil {
		return fmt.Errorf("updating task document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task document: %w", err)
	}
	if n == 0 {
		// Either the project vanished or another writer won the race;
		// distinguish so callers retry only on conflict.
		if _, getErr := r.GetByID(ctx, p.ID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("project %s: %w", p.ID, ErrRevisionConflict)
	}
	p.TaskRev = expectedRev + 1
	return nil
}

func (r *SQLiteProjectRepo) ApplyRollup(ctx context.Context, parentID string, roll domain.Rollup, updatedAt time.Time) error {
	query := `UPDATE projects SET estimated_budget = ?, actual_budget = ?, actual_hours = ?,
		progress = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		roll.EstimatedBudget,
		roll.ActualBudget,
		roll.ActualHours,
		roll.Progress,
		string(roll.Status),
		updatedAt.Format(time.RFC3339),
		parentID,
	)
	if err != nil {
		return fmt.Errorf("applying rollup: %w", err)
	}
	return requireRow(res, "project", parentID)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireRow(res, "project", id)
}

// scanProject scans one project row; the scan argument abstracts over
// *sql.Row and *sql.Rows.
func scanProject(scan func(dest ...any) error) (*domain.Project, error) {
	var p domain.Project
	var statusStr, tasksDoc, createdAtStr, updatedAtStr string
	var parentID, startDateStr, endDateStr sql.NullString

	err := scan(
		&p.ID, &p.Name, &p.Description, &statusStr,
		&p.Budget, &p.ActualBudget, &p.EstimatedBudget,
		&p.ActualHours, &p.Progress,
		&parentID, &startDateStr, &endDateStr,
		&tasksDoc, &p.TaskRev,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.ParentProjectID = strPtr(parentID)
	p.StartDate = parseNullableTime(startDateStr, dateLayout)
	p.EndDate = parseNullableTime(endDateStr, dateLayout)

	p.Tasks, err = domain.DecodeTasks([]byte(tasksDoc))
	if err != nil {
		return nil, err
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &p, nil
}

// requireRow converts a zero-rows-affected update/delete into ErrNotFound.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
