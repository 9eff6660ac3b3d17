package repository

import (
	"context"
	"time"

	"github.com/apexhq/apex/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// ListByParent returns the child projects ("locations") referencing the
	// given parent, in stable creation order.
	ListByParent(ctx context.Context, parentID string) ([]*domain.Project, error)
	// Update persists scalar project fields. The task document is excluded;
	// it is only ever rewritten through UpdateTasks.
	Update(ctx context.Context, p *domain.Project) error
	// UpdateTasks rewrites the whole task document plus the project-level
	// actual-hours total, guarded by a compare-and-swap on the revision the
	// caller read. Returns ErrRevisionConflict when the revision moved.
	UpdateTasks(ctx context.Context, p *domain.Project, expectedRev int64) error
	// ApplyRollup overwrites the parent's five aggregate fields.
	ApplyRollup(ctx context.Context, parentID string, r domain.Rollup, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type TimeEntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error)
	ListByTask(ctx context.Context, projectID, taskID string) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type RoomRepo interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Room, error)
	Update(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, id string) error
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	// List returns the newest entries first, capped at limit. A non-empty
	// entityType/entityID pair filters to one entity's history.
	List(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditEntry, error)
}
