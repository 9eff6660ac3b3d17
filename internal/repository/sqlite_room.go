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

const roomColumns = `id, project_id, name, floor, status, created_at, updated_at`

// SQLiteRoomRepo implements RoomRepo over a SQLite database or transaction.
type SQLiteRoomRepo struct {
	db db.DBTX
}

// NewSQLiteRoomRepo creates a new SQLiteRoomRepo.
func NewSQLiteRoomRepo(dbtx db.DBTX) *SQLiteRoomRepo {
	return &SQLiteRoomRepo{db: dbtx}
}

func (r *SQLiteRoomRepo) Create(ctx context.Context, rm *domain.Room) error {
	query := `INSERT INTO rooms (` + roomColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rm.ID,
		rm.ProjectID,
		rm.Name,
		rm.Floor,
		string(rm.Status),
		rm.CreatedAt.Format(time.RFC3339),
		rm.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}
	return nil
}

func (r *SQLiteRoomRepo) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	rm, err := scanRoom(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return rm, nil
}

func (r *SQLiteRoomRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rooms: %w", err)
	}
	return rooms, nil
}

func (r *SQLiteRoomRepo) Update(ctx context.Context, rm *domain.Room) error {
	query := `UPDATE rooms SET name = ?, floor = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rm.Name,
		rm.Floor,
		string(rm.Status),
		rm.UpdatedAt.Format(time.RFC3339),
		rm.ID,
	)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	return requireRow(res, "room", rm.ID)
}

func (r *SQLiteRoomRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return requireRow(res, "room", id)
}

func scanRoom(scan func(dest ...any) error) (*domain.Room, error) {
	var rm domain.Room
	var statusStr, createdAtStr, updatedAtStr string
	err := scan(&rm.ID, &rm.ProjectID, &rm.Name, &rm.Floor, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	rm.Status = domain.RoomStatus(statusStr)

	var parseErr error
	rm.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rm.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &rm, nil
}
