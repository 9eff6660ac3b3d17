package repository

import (
	"context"
	"testing"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRepo_CRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	rooms := NewSQLiteRoomRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Tower B")
	require.NoError(t, projects.Create(ctx, proj))

	rm := testutil.NewTestRoom(proj.ID, "Lobby")
	rm.Floor = "1"
	require.NoError(t, rooms.Create(ctx, rm))

	fetched, err := rooms.GetByID(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lobby", fetched.Name)
	assert.Equal(t, domain.RoomPending, fetched.Status)

	fetched.Status = domain.RoomCompleted
	require.NoError(t, rooms.Update(ctx, fetched))

	list, err := rooms.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoomCompleted, list[0].Status)

	require.NoError(t, rooms.Delete(ctx, rm.ID))
	_, err = rooms.GetByID(ctx, rm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomRepo_CascadeOnProjectDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(db)
	rooms := NewSQLiteRoomRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("Doomed")
	require.NoError(t, projects.Create(ctx, proj))
	require.NoError(t, rooms.Create(ctx, testutil.NewTestRoom(proj.ID, "Lobby")))

	require.NoError(t, projects.Delete(ctx, proj.ID))

	list, err := rooms.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
