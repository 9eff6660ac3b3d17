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

// taskService mutates a project's task document. Every write re-reads the
// document, applies the change, and swaps the whole document back under the
// revision guard; conflicting writers retry.
type taskService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) List(ctx context.Context, projectID string) ([]*domain.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

func (s *taskService) Get(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	m := domain.FindTask(p.Tasks, taskID)
	if m == nil {
		return nil, fmt.Errorf("task %s in project %s: %w", taskID, projectID, domain.ErrTaskNotFound)
	}
	return m.Task, nil
}

func (s *taskService) Create(ctx context.Context, projectID, parentTaskID string, t *domain.Task) error {
	if t.Name == "" {
		return invalid(fmt.Errorf("task name is required"))
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	start := time.Now()
	err := s.mutateTasks(ctx, projectID, domain.AuditCreated, t.ID, func(p *domain.Project) error {
		if domain.FindTask(p.Tasks, t.ID) != nil {
			return invalid(fmt.Errorf("task ID %q already exists in project %s", t.ID, projectID))
		}
		if parentTaskID == "" {
			p.Tasks = append(p.Tasks, t)
			return nil
		}
		m := domain.FindTask(p.Tasks, parentTaskID)
		if m == nil {
			return fmt.Errorf("parent task %s in project %s: %w", parentTaskID, projectID, domain.ErrTaskNotFound)
		}
		m.Task.Subtasks = append(m.Task.Subtasks, t)
		return nil
	})
	observe(ctx, s.observer, "task_create", start, err, map[string]any{"project_id": projectID, "task_id": t.ID})
	return err
}

func (s *taskService) Update(ctx context.Context, projectID, taskID string, upd TaskUpdate) (*domain.Task, error) {
	var updated *domain.Task
	start := time.Now()
	err := s.mutateTasks(ctx, projectID, domain.AuditUpdated, taskID, func(p *domain.Project) error {
		m := domain.FindTask(p.Tasks, taskID)
		if m == nil {
			return fmt.Errorf("task %s in project %s: %w", taskID, projectID, domain.ErrTaskNotFound)
		}
		if upd.Name != nil {
			m.Task.Name = *upd.Name
		}
		if upd.Status != nil {
			m.Task.Status = *upd.Status
		}
		m.Task.EstimatedHours = domain.Float64FromPtrWithDefault(m.Task.EstimatedHours, upd.EstimatedHours)
		m.Task.UpdatedAt = time.Now().UTC()
		updated = m.Task
		return nil
	})
	observe(ctx, s.observer, "task_update", start, err, map[string]any{"project_id": projectID, "task_id": taskID})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, projectID, taskID string) error {
	start := time.Now()
	err := s.mutateTasks(ctx, projectID, domain.AuditDeleted, taskID, func(p *domain.Project) error {
		tasks, removed := domain.RemoveTask(p.Tasks, taskID)
		if !removed {
			return fmt.Errorf("task %s in project %s: %w", taskID, projectID, domain.ErrTaskNotFound)
		}
		p.Tasks = tasks
		return nil
	})
	observe(ctx, s.observer, "task_delete", start, err, map[string]any{"project_id": projectID, "task_id": taskID})
	return err
}

func (s *taskService) AddNote(ctx context.Context, projectID, taskID string, note domain.TaskNote) error {
	if note.Content == "" {
		return invalid(fmt.Errorf("note content is required"))
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	if note.Author == "" {
		note.Author = actorFrom(ctx)
	}

	start := time.Now()
	err := s.mutateTasks(ctx, projectID, domain.AuditUpdated, taskID, func(p *domain.Project) error {
		m := domain.FindTask(p.Tasks, taskID)
		if m == nil {
			return fmt.Errorf("task %s in project %s: %w", taskID, projectID, domain.ErrTaskNotFound)
		}
		m.Task.Notes = append(m.Task.Notes, note)
		m.Task.UpdatedAt = time.Now().UTC()
		return nil
	})
	observe(ctx, s.observer, "task_note", start, err, map[string]any{"project_id": projectID, "task_id": taskID})
	return err
}

// mutateTasks applies change to the project's task document inside the
// compare-and-swap retry loop, then resyncs the project hour total and the
// parent project's aggregates in the same transaction.
func (s *taskService) mutateTasks(ctx context.Context, projectID, auditAction, taskID string, change func(p *domain.Project) error) error {
	return withTaskDocRetry(ctx, s.uow, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		p, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		rev := p.TaskRev
		if err := change(p); err != nil {
			return err
		}
		p.ActualHours = domain.RootActualHours(p.Tasks)
		now := time.Now().UTC()
		p.UpdatedAt = now
		if err := txProjects.UpdateTasks(ctx, p, rev); err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, auditAction, "task", taskID, "project "+projectID); err != nil {
			return err
		}
		if p.IsChild() {
			return recomputeParentRollup(ctx, tx, *p.ParentProjectID, now)
		}
		return nil
	})
}
