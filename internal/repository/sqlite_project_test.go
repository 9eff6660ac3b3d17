package repository

import (
	"context"
	"testing"
	"time"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Tower B",
		testutil.WithProjectID("WTB_001"),
		testutil.WithBudgets(50000, 40000),
		testutil.WithProgress(50),
		testutil.WithTasks(testutil.NewTestTask("t1", "Demolition")),
	)
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	assert.Equal(t, "Tower B", fetched.Name)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
	assert.InDelta(t, 50000.0, fetched.EstimatedBudget, 1e-9)
	assert.Equal(t, 50, fetched.Progress)
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "t1", fetched.Tasks[0].ID)
	assert.Nil(t, fetched.ParentProjectID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ListByParent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	parent := testutil.NewTestProject("Parent", testutil.WithProjectID("WTB_001"))
	require.NoError(t, repo.Create(ctx, parent))
	loc1 := testutil.NewTestProject("Loc 1",
		testutil.WithProjectID("WTB_001_loc1"), testutil.WithParentProject("WTB_001"))
	loc2 := testutil.NewTestProject("Loc 2",
		testutil.WithProjectID("WTB_001_loc2"), testutil.WithParentProject("WTB_001"))
	other := testutil.NewTestProject("Unrelated")
	require.NoError(t, repo.Create(ctx, loc1))
	require.NoError(t, repo.Create(ctx, loc2))
	require.NoError(t, repo.Create(ctx, other))

	children, err := repo.ListByParent(ctx, "WTB_001")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "WTB_001_loc1", children[0].ID)
	assert.Equal(t, "WTB_001_loc2", children[1].ID)

	none, err := repo.ListByParent(ctx, "WTB_001_loc1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Orig",
		testutil.WithTasks(testutil.NewTestTask("t1", "Keep me")))
	require.NoError(t, repo.Create(ctx, proj))

	proj.Name = "Renamed"
	proj.Status = domain.ProjectOnHold
	proj.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
	assert.Equal(t, domain.ProjectOnHold, fetched.Status)
	// Update never touches the task document.
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "t1", fetched.Tasks[0].ID)
}

func TestProjectRepo_Update_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	ghost := testutil.NewTestProject("Ghost")
	err := repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_UpdateTasks_BumpsRevision(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Tower B")
	require.NoError(t, repo.Create(ctx, proj))

	proj.Tasks = []*domain.Task{testutil.NewTestTask("t1", "Demolition")}
	proj.ActualHours = 4
	proj.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateTasks(ctx, proj, 0))
	assert.Equal(t, int64(1), proj.TaskRev)

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.TaskRev)
	assert.InDelta(t, 4.0, fetched.ActualHours, 1e-9)
	require.Len(t, fetched.Tasks, 1)
}

func TestProjectRepo_UpdateTasks_StaleRevisionConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Tower B")
	require.NoError(t, repo.Create(ctx, proj))

	// Two writers read revision 0; the first write wins.
	first, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)

	first.Tasks = []*domain.Task{testutil.NewTestTask("a", "First writer")}
	first.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.UpdateTasks(ctx, first, first.TaskRev))

	second.Tasks = []*domain.Task{testutil.NewTestTask("b", "Second writer")}
	second.UpdatedAt = time.Now().UTC()
	err = repo.UpdateTasks(ctx, second, second.TaskRev)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	// The first writer's document survived.
	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "a", fetched.Tasks[0].ID)
}

func TestProjectRepo_UpdateTasks_MissingProject(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	ghost := testutil.NewTestProject("Ghost")
	ghost.UpdatedAt = time.Now().UTC()
	err := repo.UpdateTasks(context.Background(), ghost, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ApplyRollup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Parent", testutil.WithProjectID("WTB_001"))
	require.NoError(t, repo.Create(ctx, proj))

	now := time.Now().UTC().Truncate(time.Second)
	roll := domain.Rollup{
		EstimatedBudget: 80000,
		ActualBudget:    75000,
		ActualHours:     20,
		Progress:        65,
		Status:          domain.ProjectInProgress,
	}
	require.NoError(t, repo.ApplyRollup(ctx, "WTB_001", roll, now))

	fetched, err := repo.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	assert.InDelta(t, 80000.0, fetched.EstimatedBudget, 1e-9)
	assert.InDelta(t, 75000.0, fetched.ActualBudget, 1e-9)
	assert.InDelta(t, 20.0, fetched.ActualHours, 1e-9)
	assert.Equal(t, 65, fetched.Progress)
	assert.Equal(t, domain.ProjectInProgress, fetched.Status)
	assert.Equal(t, now, fetched.UpdatedAt.UTC())
}

func TestProjectRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, repo.Create(ctx, proj))
	require.NoError(t, repo.Delete(ctx, proj.ID))

	_, err := repo.GetByID(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, proj.ID), ErrNotFound)
}

func TestProjectRepo_DeleteParent_DetachesChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	parent := testutil.NewTestProject("Parent", testutil.WithProjectID("WTB_001"))
	require.NoError(t, repo.Create(ctx, parent))
	loc := testutil.NewTestProject("Loc",
		testutil.WithProjectID("WTB_001_loc1"), testutil.WithParentProject("WTB_001"))
	require.NoError(t, repo.Create(ctx, loc))

	require.NoError(t, repo.Delete(ctx, "WTB_001"))

	// ON DELETE SET NULL: the child survives as a standalone project.
	fetched, err := repo.GetByID(ctx, "WTB_001_loc1")
	require.NoError(t, err)
	assert.Nil(t, fetched.ParentProjectID)
}

func TestProjectRepo_LegacyNumericTaskIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Legacy")
	require.NoError(t, repo.Create(ctx, proj))

	// Simulate a document written by the old system with numeric IDs.
	_, err := db.Exec(`UPDATE projects SET tasks = ? WHERE id = ?`,
		`[{"id": 5, "name": "Old task", "subtasks": [{"id": 6, "name": "Old subtask"}]}]`, proj.ID)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Tasks, 1)
	assert.Equal(t, "5", fetched.Tasks[0].ID)
	require.Len(t, fetched.Tasks[0].Subtasks, 1)
	assert.Equal(t, "6", fetched.Tasks[0].Subtasks[0].ID)
}
