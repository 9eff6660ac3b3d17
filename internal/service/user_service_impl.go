package service

import (
	"context"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users repository.UserRepo
	uow   db.UnitOfWork
}

func NewUserService(users repository.UserRepo, uow db.UnitOfWork) UserService {
	return &userService{users: users, uow: uow}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	if err := u.Validate(); err != nil {
		return invalid(err)
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Create(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditCreated, "user", u.ID, u.Email)
	})
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return invalid(err)
	}
	u.UpdatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Update(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditUpdated, "user", u.ID, u.Email)
	})
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, domain.AuditDeleted, "user", id, "")
	})
}
