package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// newProjectID mints a generated identifier in the same prefixed shape
// clients use for their own (e.g. PRJ_5f3a9c1e).
func newProjectID() string {
	return "PRJ_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = newProjectID()
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	if len(p.Tasks) > 0 {
		p.ActualHours = domain.RootActualHours(p.Tasks)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		if p.IsChild() {
			if _, err := txProjects.GetByID(ctx, *p.ParentProjectID); err != nil {
				return fmt.Errorf("parent project: %w", err)
			}
		}
		if err := txProjects.Create(ctx, p); err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditCreated, "project", p.ID, p.Name); err != nil {
			return err
		}
		if p.IsChild() {
			return recomputeParentRollup(ctx, tx, *p.ParentProjectID, now)
		}
		return nil
	})
	observe(ctx, s.observer, "project_create", start, err, map[string]any{"project_id": p.ID})
	return err
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) ListChildren(ctx context.Context, parentID string) ([]*domain.Project, error) {
	return s.projects.ListByParent(ctx, parentID)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	now := time.Now().UTC()
	p.UpdatedAt = now

	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		existing, err := txProjects.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if p.IsChild() {
			if _, err := txProjects.GetByID(ctx, *p.ParentProjectID); err != nil {
				return fmt.Errorf("parent project: %w", err)
			}
		}
		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditUpdated, "project", p.ID, p.Name); err != nil {
			return err
		}
		if p.IsChild() {
			if err := recomputeParentRollup(ctx, tx, *p.ParentProjectID, now); err != nil {
				return err
			}
		}
		// A reparented child leaves its old parent's aggregates stale too.
		if existing.IsChild() && (!p.IsChild() || *existing.ParentProjectID != *p.ParentProjectID) {
			return recomputeParentRollup(ctx, tx, *existing.ParentProjectID, now)
		}
		return nil
	})
	observe(ctx, s.observer, "project_update", start, err, map[string]any{"project_id": p.ID})
	return err
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		existing, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txProjects.Delete(ctx, id); err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, domain.AuditDeleted, "project", id, existing.Name); err != nil {
			return err
		}
		if existing.IsChild() {
			return recomputeParentRollup(ctx, tx, *existing.ParentProjectID, time.Now().UTC())
		}
		return nil
	})
	observe(ctx, s.observer, "project_delete", start, err, map[string]any{"project_id": id})
	return err
}
