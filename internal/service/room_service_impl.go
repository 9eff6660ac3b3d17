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

type roomService struct {
	rooms    repository.RoomRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewRoomService(rooms repository.RoomRepo, projects repository.ProjectRepo, uow db.UnitOfWork) RoomService {
	return &roomService{rooms: rooms, projects: projects, uow: uow}
}

func (s *roomService) Create(ctx context.Context, r *domain.Room) error {
	if r.Status == "" {
		r.Status = domain.RoomPending
	}
	if err := r.Validate(); err != nil {
		return invalid(err)
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.projects.GetByID(ctx, r.ProjectID); err != nil {
		return fmt.Errorf("project %s: %w", r.ProjectID, err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRoomRepo(tx).Create(ctx, r); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditCreated, "room", r.ID, r.Name)
	})
}

func (s *roomService) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *roomService) ListByProject(ctx context.Context, projectID string) ([]*domain.Room, error) {
	return s.rooms.ListByProject(ctx, projectID)
}

func (s *roomService) Update(ctx context.Context, r *domain.Room) error {
	if err := r.Validate(); err != nil {
		return invalid(err)
	}
	r.UpdatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRoomRepo(tx).Update(ctx, r); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditUpdated, "room", r.ID, r.Name)
	})
}

func (s *roomService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRoomRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditDeleted, "room", id, "")
	})
}
