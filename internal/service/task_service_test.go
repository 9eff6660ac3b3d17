package service

import (
	"context"
	"errors"
	"testing"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/apexhq/apex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_Create_RootAndNested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B")
	require.NoError(t, f.projects.Create(ctx, p))

	root := &domain.Task{ID: "t1", Name: "Demolition"}
	require.NoError(t, f.taskSvc.Create(ctx, p.ID, "", root))
	assert.Equal(t, domain.TaskPending, root.Status)

	sub := &domain.Task{ID: "t11", Name: "Clear debris"}
	require.NoError(t, f.taskSvc.Create(ctx, p.ID, "t1", sub))

	tasks, err := f.taskSvc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "t11", tasks[0].Subtasks[0].ID)

	// Each document rewrite bumps the revision.
	stored, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.TaskRev)
}

func TestTaskService_Create_GeneratesID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B")
	require.NoError(t, f.projects.Create(ctx, p))

	task := &domain.Task{Name: "Unnamed ID"}
	require.NoError(t, f.taskSvc.Create(ctx, p.ID, "", task))
	assert.NotEmpty(t, task.ID)
}

func TestTaskService_Create_DuplicateIDRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B",
		testutil.WithTasks(testutil.NewTestTask("t1", "Existing")))
	require.NoError(t, f.projects.Create(ctx, p))

	err := f.taskSvc.Create(ctx, p.ID, "", &domain.Task{ID: "t1", Name: "Clone"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestTaskService_Create_MissingParentTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B")
	require.NoError(t, f.projects.Create(ctx, p))

	err := f.taskSvc.Create(ctx, p.ID, "ghost", &domain.Task{Name: "Lost"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_Get_NumericCoercion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Legacy")
	require.NoError(t, f.projects.Create(ctx, p))
	_, err := f.db.Exec(`UPDATE projects SET tasks = ? WHERE id = ?`,
		`[{"id": 5, "name": "Old task"}]`, p.ID)
	require.NoError(t, err)

	task, err := f.taskSvc.Get(ctx, p.ID, "5")
	require.NoError(t, err)
	assert.Equal(t, "Old task", task.Name)
}

func TestTaskService_Update_PatchesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B",
		testutil.WithTasks(testutil.NewTestTask("t1", "Demolition")))
	require.NoError(t, f.projects.Create(ctx, p))

	name := "Demolition phase 1"
	status := domain.TaskInProgress
	est := 40.0
	updated, err := f.taskSvc.Update(ctx, p.ID, "t1", TaskUpdate{
		Name: &name, Status: &status, EstimatedHours: &est,
	})
	require.NoError(t, err)
	assert.Equal(t, "Demolition phase 1", updated.Name)
	assert.Equal(t, domain.TaskInProgress, updated.Status)
	assert.InDelta(t, 40.0, updated.EstimatedHours, 1e-9)

	// Nil fields stay untouched.
	updated, err = f.taskSvc.Update(ctx, p.ID, "t1", TaskUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Demolition phase 1", updated.Name)
	assert.InDelta(t, 40.0, updated.EstimatedHours, 1e-9)
}

func TestTaskService_Delete_ResyncsProjectHours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t1 := testutil.NewTestTask("t1", "Demolition")
	t1.ActualHours = 10
	t2 := testutil.NewTestTask("t2", "Framing")
	t2.ActualHours = 6
	p := testutil.NewTestProject("Tower B", testutil.WithTasks(t1, t2))
	require.NoError(t, f.projects.Create(ctx, p))

	require.NoError(t, f.taskSvc.Delete(ctx, p.ID, "t2"))

	stored, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Tasks, 1)
	assert.InDelta(t, 10.0, stored.ActualHours, 1e-9)
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B")
	require.NoError(t, f.projects.Create(ctx, p))

	err := f.taskSvc.Delete(ctx, p.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_AddNote(t *testing.T) {
	f := newFixture(t)
	ctx := WithActor(context.Background(), "pm@apex.dev")

	p := testutil.NewTestProject("Tower B",
		testutil.WithTasks(testutil.NewTestTask("t1", "Demolition")))
	require.NoError(t, f.projects.Create(ctx, p))

	require.NoError(t, f.taskSvc.AddNote(ctx, p.ID, "t1", domain.TaskNote{Content: "Permit approved"}))

	task, err := f.taskSvc.Get(ctx, p.ID, "t1")
	require.NoError(t, err)
	require.Len(t, task.Notes, 1)
	assert.Equal(t, "Permit approved", task.Notes[0].Content)
	assert.Equal(t, "pm@apex.dev", task.Notes[0].Author)
}

// conflictUoW always reports a lost compare-and-swap, to exercise the retry
// bound.
type conflictUoW struct {
	calls int
}

func (u *conflictUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.calls++
	return repository.ErrRevisionConflict
}

func TestTaskService_ConflictExhaustsRetries(t *testing.T) {
	uow := &conflictUoW{}
	svc := NewTaskService(nil, uow)

	err := svc.Delete(context.Background(), "WTB_001", "t1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, taskWriteAttempts, uow.calls)
}

func TestTaskService_WriteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower B",
		testutil.WithTasks(testutil.NewTestTask("t1", "Demolition")))
	require.NoError(t, f.projects.Create(ctx, p))

	// Fail the audit append; the document rewrite before it must roll back.
	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: boom}
	svc := NewTaskService(f.projects, failing)

	err := svc.Delete(ctx, p.ID, "t1")
	assert.ErrorIs(t, err, boom)

	stored, err := f.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Tasks, 1)
	assert.Equal(t, int64(0), stored.TaskRev)
}
