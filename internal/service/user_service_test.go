package service

import (
	"context"
	"testing"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create_DefaultsAndAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := &domain.User{Email: "dana@apex.dev", Name: "Dana"}
	require.NoError(t, f.userSvc.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleMember, u.Role)

	trail, err := f.auditSvc.List(ctx, "user", u.ID, 0)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.AuditCreated, trail[0].Action)
}

func TestUserService_Create_InvalidEmail(t *testing.T) {
	f := newFixture(t)

	err := f.userSvc.Create(context.Background(), &domain.User{Email: "nope", Name: "Dana"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := testutil.NewTestUser("dana")
	require.NoError(t, f.userSvc.Create(ctx, u))

	u.Role = domain.RoleManager
	require.NoError(t, f.userSvc.Update(ctx, u))

	fetched, err := f.userSvc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, fetched.Role)

	require.NoError(t, f.userSvc.Delete(ctx, u.ID))
	trail, err := f.auditSvc.List(ctx, "user", u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, trail, 3)
}
