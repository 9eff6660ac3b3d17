package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/apexhq/apex/internal/domain"
	"github.com/google/uuid"
)

var testProjectCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithParentProject(parentID string) ProjectOption {
	return func(p *domain.Project) {
		p.ParentProjectID = &parentID
	}
}

func WithBudgets(estimated, actual float64) ProjectOption {
	return func(p *domain.Project) {
		p.EstimatedBudget = estimated
		p.ActualBudget = actual
	}
}

func WithProgress(pct int) ProjectOption {
	return func(p *domain.Project) {
		p.Progress = pct
	}
}

func WithTasks(tasks ...*domain.Task) ProjectOption {
	return func(p *domain.Project) {
		p.Tasks = tasks
	}
}

func WithEndDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.EndDate = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        fmt.Sprintf("TST_%03d", testProjectCounter.Add(1)),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestTask builds a task with the given ID and optional subtasks.
func NewTestTask(id, name string, subtasks ...*domain.Task) *domain.Task {
	return &domain.Task{
		ID:       id,
		Name:     name,
		Status:   domain.TaskPending,
		Subtasks: subtasks,
	}
}

// NewTestTimeEntry builds a time entry against the given project and task.
func NewTestTimeEntry(projectID, taskID string, hours float64) *domain.TimeEntry {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.TimeEntry{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		TaskID:    taskID,
		Employee:  "test-employee",
		Hours:     hours,
		Date:      now,
		CreatedAt: now,
	}
}

// NewTestUser builds a user with a unique email.
func NewTestUser(name string) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	id := uuid.New().String()
	return &domain.User{
		ID:        id,
		Email:     fmt.Sprintf("%s-%s@example.com", name, id[:8]),
		Name:      name,
		Role:      domain.RoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRoom builds a room under the given project.
func NewTestRoom(projectID, name string) *domain.Room {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Room{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.RoomPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
