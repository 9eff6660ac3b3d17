package service

import (
	"database/sql"
	"testing"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/repository"
	"github.com/apexhq/apex/internal/testutil"
)

// fixture bundles a fresh in-memory database with repositories and services
// wired the way the composition root wires them.
type fixture struct {
	db       *sql.DB
	uow      db.UnitOfWork
	projects *repository.SQLiteProjectRepo
	entries  *repository.SQLiteTimeEntryRepo
	users    *repository.SQLiteUserRepo
	rooms    *repository.SQLiteRoomRepo
	audit    *repository.SQLiteAuditRepo

	projectSvc ProjectService
	taskSvc    TaskService
	entrySvc   TimeEntryService
	userSvc    UserService
	roomSvc    RoomService
	auditSvc   AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	f := &fixture{
		db:       database,
		uow:      uow,
		projects: repository.NewSQLiteProjectRepo(database),
		entries:  repository.NewSQLiteTimeEntryRepo(database),
		users:    repository.NewSQLiteUserRepo(database),
		rooms:    repository.NewSQLiteRoomRepo(database),
		audit:    repository.NewSQLiteAuditRepo(database),
	}
	f.projectSvc = NewProjectService(f.projects, uow)
	f.taskSvc = NewTaskService(f.projects, uow)
	f.entrySvc = NewTimeEntryService(f.entries, uow)
	f.userSvc = NewUserService(f.users, uow)
	f.roomSvc = NewRoomService(f.rooms, f.projects, uow)
	f.auditSvc = NewAuditService(f.audit)
	return f
}
