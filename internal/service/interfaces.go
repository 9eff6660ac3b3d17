package service

import (
	"context"

	"github.com/apexhq/apex/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskUpdate carries the patchable task fields. Nil means "leave unchanged".
type TaskUpdate struct {
	Name           *string
	Status         *string
	EstimatedHours *float64
}

type TaskService interface {
	List(ctx context.Context, projectID string) ([]*domain.Task, error)
	Get(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	// Create appends the task under parentTaskID, or at the root level when
	// parentTaskID is empty.
	Create(ctx context.Context, projectID, parentTaskID string, t *domain.Task) error
	Update(ctx context.Context, projectID, taskID string, upd TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, projectID, taskID string) error
	AddNote(ctx context.Context, projectID, taskID string, note domain.TaskNote) error
}

type TimeEntryService interface {
	// Record persists the entry and rolls its hours up through the task
	// tree and, for child projects, into the parent project, atomically.
	Record(ctx context.Context, e *domain.TimeEntry) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error)
	ListByTask(ctx context.Context, projectID, taskID string) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type RoomService interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id string) error
}

type AuditService interface {
	List(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditEntry, error)
}
