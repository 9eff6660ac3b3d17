package service

import (
	"context"
	"strings"
	"testing"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/apexhq/apex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_GeneratesIDAndDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := &domain.Project{Name: "Westside Tower B"}
	require.NoError(t, f.projectSvc.Create(ctx, p))

	assert.True(t, strings.HasPrefix(p.ID, "PRJ_"), "generated ID %q", p.ID)
	assert.Equal(t, domain.ProjectPlanning, p.Status)

	fetched, err := f.projectSvc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Westside Tower B", fetched.Name)

	trail, err := f.auditSvc.List(ctx, "project", p.ID, 0)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.AuditCreated, trail[0].Action)
}

func TestProjectService_Create_InvalidRejected(t *testing.T) {
	f := newFixture(t)

	err := f.projectSvc.Create(context.Background(), &domain.Project{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestProjectService_Create_MissingParent(t *testing.T) {
	f := newFixture(t)

	parent := "WTB_404"
	p := &domain.Project{Name: "Orphan", ParentProjectID: &parent}
	err := f.projectSvc.Create(context.Background(), p)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_Create_ChildRollsUpIntoParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := testutil.NewTestProject("Tower B", testutil.WithProjectID("WTB_001"))
	require.NoError(t, f.projects.Create(ctx, parent))

	loc1 := &domain.Project{
		ID: "WTB_001_loc1", Name: "Floors 1-10",
		Status:          domain.ProjectInProgress,
		ParentProjectID: strPtr("WTB_001"),
		EstimatedBudget: 50000, ActualBudget: 45000, Progress: 80,
	}
	loc2 := &domain.Project{
		ID: "WTB_001_loc2", Name: "Floors 11-20",
		Status:          domain.ProjectActive,
		ParentProjectID: strPtr("WTB_001"),
		EstimatedBudget: 30000, ActualBudget: 30000, Progress: 50,
	}
	require.NoError(t, f.projectSvc.Create(ctx, loc1))
	require.NoError(t, f.projectSvc.Create(ctx, loc2))

	got, err := f.projects.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	assert.InDelta(t, 80000.0, got.EstimatedBudget, 1e-9)
	assert.InDelta(t, 75000.0, got.ActualBudget, 1e-9)
	assert.Equal(t, 65, got.Progress)
	// An active child counts as in-progress; the parent takes the
	// canonical status of the worst-ranked child.
	assert.Equal(t, domain.ProjectInProgress, got.Status)
}

func TestProjectService_Update_ReparentRefreshesBothParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"WTB_001", "WTB_002"} {
		require.NoError(t, f.projects.Create(ctx, testutil.NewTestProject("Parent "+id,
			testutil.WithProjectID(id), testutil.WithBudgets(0, 0))))
	}
	child := &domain.Project{
		ID: "WTB_001_loc1", Name: "Movable",
		Status:          domain.ProjectInProgress,
		ParentProjectID: strPtr("WTB_001"),
		EstimatedBudget: 10000, Progress: 40,
	}
	require.NoError(t, f.projectSvc.Create(ctx, child))

	oldParent, err := f.projects.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	require.InDelta(t, 10000.0, oldParent.EstimatedBudget, 1e-9)

	child.ParentProjectID = strPtr("WTB_002")
	require.NoError(t, f.projectSvc.Update(ctx, child))

	newParent, err := f.projects.GetByID(ctx, "WTB_002")
	require.NoError(t, err)
	assert.InDelta(t, 10000.0, newParent.EstimatedBudget, 1e-9)
	assert.Equal(t, 40, newParent.Progress)

	// The old parent has no children left; it keeps its stored values.
	oldParent, err = f.projects.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	assert.InDelta(t, 10000.0, oldParent.EstimatedBudget, 1e-9)
}

func TestProjectService_Update_SelfParentRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := testutil.NewTestProject("Loop", testutil.WithProjectID("WTB_001"))
	require.NoError(t, f.projects.Create(ctx, p))

	p.ParentProjectID = strPtr("WTB_001")
	err := f.projectSvc.Update(ctx, p)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestProjectService_Delete_RefreshesParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := testutil.NewTestProject("Tower B", testutil.WithProjectID("WTB_001"))
	require.NoError(t, f.projects.Create(ctx, parent))
	loc1 := &domain.Project{
		ID: "WTB_001_loc1", Name: "Keeper",
		Status:          domain.ProjectCompleted,
		ParentProjectID: strPtr("WTB_001"),
		EstimatedBudget: 20000, Progress: 100,
	}
	loc2 := &domain.Project{
		ID: "WTB_001_loc2", Name: "Goner",
		Status:          domain.ProjectOnHold,
		ParentProjectID: strPtr("WTB_001"),
		EstimatedBudget: 30000, Progress: 10,
	}
	require.NoError(t, f.projectSvc.Create(ctx, loc1))
	require.NoError(t, f.projectSvc.Create(ctx, loc2))

	require.NoError(t, f.projectSvc.Delete(ctx, "WTB_001_loc2"))

	got, err := f.projects.GetByID(ctx, "WTB_001")
	require.NoError(t, err)
	assert.InDelta(t, 20000.0, got.EstimatedBudget, 1e-9)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, domain.ProjectCompleted, got.Status)
}

func strPtr(s string) *string { return &s }
