// Package repository implements the write-side persistence ports with pgx
// directly; queries are hand-written SQL against the admission schema.
package repository

import (
	"context"
	"errors"

	"enrollment-core/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the same
// repository code serves pooled calls and transactional calls.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// classifyErr maps a pgx error onto the repository error taxonomy.
func classifyErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.NewRepoErr(infra.KindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.NewRepoErr(infra.KindDuplicateKey, msg, err)
		case pgErrCodeForeignKeyViolation:
			return infra.NewRepoErr(infra.KindForeignKeyViolated, msg, err)
		}
		// Class 08 is connection failure.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return infra.NewRepoErr(infra.KindUnavailable, msg, err)
		}
		return infra.NewRepoErr(infra.KindDBFailure, msg, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return infra.NewRepoErr(infra.KindUnavailable, msg, err)
	}
	return infra.NewRepoErr(infra.KindDBFailure, msg, err)
}
