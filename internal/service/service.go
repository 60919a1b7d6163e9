package service

import (
	"context"

	apperrors "github.com/leadline/crm-server/internal/errors"
	"github.com/leadline/crm-server/internal/database"
	"github.com/leadline/crm-server/internal/repository"
)

// Transactor runs a function inside a single database transaction.
// *database.DB satisfies it.
type Transactor interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

var _ Transactor = (*database.DB)(nil)

// storeError translates a repository failure into an AppError. AppErrors
// raised inside a transaction pass through unchanged.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if repository.IsForeignKeyViolation(err) {
		return apperrors.InvalidInput("reference", "unknown contact or employee id").WithCause(err)
	}
	if repository.IsUniqueViolation(err) {
		return apperrors.AlreadyExists("Record").WithCause(err)
	}
	return apperrors.Database(err)
}
