package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apexhq/apex/internal/db"
	"github.com/apexhq/apex/internal/domain"
	"github.com/apexhq/apex/internal/repository"
	"github.com/google/uuid"
)

// taskWriteAttempts bounds the compare-and-swap retry loop on the task
// document. Each attempt re-reads the document inside a fresh transaction.
const taskWriteAttempts = 3

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// withTaskDocRetry runs fn in a transaction, retrying when the task
// document's revision moved underneath it.
func withTaskDocRetry(ctx context.Context, uow db.UnitOfWork, fn func(ctx context.Context, tx db.DBTX) error) error {
	var err error
	for attempt := 0; attempt < taskWriteAttempts; attempt++ {
		err = uow.WithinTx(ctx, fn)
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

// appendAudit writes an audit entry through the transaction at hand.
func appendAudit(ctx context.Context, tx db.DBTX, action, entityType, entityID, detail string) error {
	audit := repository.NewSQLiteAuditRepo(tx)
	return audit.Append(ctx, &domain.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      actorFrom(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	})
}

// recomputeParentRollup refreshes a parent's aggregate fields from its
// children, within the caller's transaction. A parent with no children keeps
// its stored values.
func recomputeParentRollup(ctx context.Context, tx db.DBTX, parentID string, now time.Time) error {
	projects := repository.NewSQLiteProjectRepo(tx)
	children, err := projects.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	roll, ok := domain.ComputeRollup(children)
	if !ok {
		return nil
	}
	return projects.ApplyRollup(ctx, parentID, roll, now)
}
