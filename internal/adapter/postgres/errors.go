package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ieee0824/dialectmt/tokens"
)

// mapError converts pgx/pgconn errors to tokens errors.
// context.DeadlineExceeded and context.Canceled pass through.
func mapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", entity, id, tokens.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %d: %w", entity, id, tokens.ErrNotFound)
		case "42P01", "42703": // undefined_table, undefined_column
			return fmt.Errorf("%s %d: schema mismatch: %w", entity, id, err)
		}
	}

	return fmt.Errorf("%s %d: %w", entity, id, err)
}
