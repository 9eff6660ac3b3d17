package service

import (
	"context"

	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
)

type auditService struct {
	audit repository.AuditRepo
}

func NewAuditService(audit repository.AuditRepo) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) List(ctx context.Context, entityType, entityID string, limit int) ([]*domain.AuditEntry, error) {
	return s.audit.List(ctx, entityType, entityID, limit)
}
