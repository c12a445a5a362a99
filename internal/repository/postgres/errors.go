package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/models"
)

// SQLSTATE codes the store classifies.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
)

// mapErr translates a pgx error into a domain error. what names the entity
// for the message.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
			return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, what, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrNotFound, what)
		case codeInvalidTextRepr, codeCheckViolation, codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", models.ErrInvalidArgument, what, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", what, err)
	}

	// Anything else came from the transport or the context.
	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, what, err)
}

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed.
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("rollback failed", "err", err)
	}
}
