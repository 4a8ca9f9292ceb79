package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	eventsSlugKey = "events_slug_key"
)

// translateError 把 pgx 錯誤轉成 app_errors；無法分類的連線錯誤一律視為 storage unavailable
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == eventsSlugKey:
			return apperrors.ErrDuplicateSlug
		case pgErr.Code == pgForeignKeyViolation:
			return apperrors.ErrDanglingReference
		case pgErr.Code == pgCheckViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, pgErr.ConstraintName)
		}
		return err
	}

	return fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
}
