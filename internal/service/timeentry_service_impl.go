package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/google/uuid"
)

type timeEntryService struct {
	entries  repository.TimeEntryRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTimeEntryService(entries repository.TimeEntryRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TimeEntryService {
	return &timeEntryService{
		entries:  entries,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Record credits the entry's hours to its task, resyncs the parent task and
// project totals, and — when the project rolls up into a parent project —
// refreshes that parent's aggregates. Everything happens in one transaction,
// so a failure at any step leaves no partial hour counts behind.
func (s *timeEntryService) Record(ctx context.Context, e *domain.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return invalid(err)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now

	start := time.Now()
	err := withTaskDocRetry(ctx, s.uow, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txEntries := repository.NewSQLiteTimeEntryRepo(tx)

		p, err := txProjects.GetByID(ctx, e.ProjectID)
		if err != nil {
			return err
		}
		rev := p.TaskRev

		total, err := domain.ApplyTimeEntry(p.Tasks, e.TaskID, e.Hours)
		if err != nil {
			return fmt.Errorf("task %s in project %s: %w", e.TaskID, e.ProjectID, err)
		}
		p.ActualHours = total
		p.UpdatedAt = now
		if err := txProjects.UpdateTasks(ctx, p, rev); err != nil {
			return err
		}

		if err := txEntries.Create(ctx, e); err != nil {
			return err
		}
		detail := fmt.Sprintf("%.2fh on task %s", e.Hours, e.TaskID)
		if err := appendAudit(ctx, tx, domain.AuditRecorded, "time_entry", e.ID, detail); err != nil {
			return err
		}

		if p.IsChild() {
			return recomputeParentRollup(ctx, tx, *p.ParentProjectID, now)
		}
		return nil
	})
	observe(ctx, s.observer, "time_entry_record", start, err, map[string]any{
		"project_id": e.ProjectID,
		"task_id":    e.TaskID,
		"hours":      e.Hours,
	})
	return err
}

func (s *timeEntryService) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error) {
	return s.entries.ListByProject(ctx, projectID)
}

func (s *timeEntryService) ListByTask(ctx context.Context, projectID, taskID string) ([]*domain.TimeEntry, error) {
	return s.entries.ListByTask(ctx, projectID, taskID)
}

func (s *timeEntryService) Delete(ctx context.Context, id string) error {
	return s.entries.Delete(ctx, id)
}
