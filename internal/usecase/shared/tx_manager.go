package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"book-locker/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const defaultTxRetries = 3

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// RunInTx commits when fn succeeds and rolls back otherwise.
func RunInTx[T any](ctx context.Context, db TxStarter, opts pgx.TxOptions, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return zero, errs.Mark(err, ErrTransactionBegin)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "failed to rollback transaction", "error", rbErr)
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return zero, errs.Mark(err, ErrTransactionCommit)
	}
	return result, nil
}

// RunInTxWithRetry reruns fn in a fresh transaction after serialization
// failures and deadlocks, backing off linearly.
func RunInTxWithRetry[T any](
	ctx context.Context,
	db TxStarter,
	opts pgx.TxOptions,
	maxRetries int,
	fn func(tx pgx.Tx) (T, error),
) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := RunInTx(ctx, db, opts, fn)
		switch {
		case err == nil:
			return result, nil
		case !IsRetryableError(err):
			return zero, err
		case attempt >= maxRetries:
			slog.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempt+1, "error", err)
			return zero, errs.Mark(err, ErrMaxRetriesExceeded)
		}

		wait := time.Duration(attempt+1) * 100 * time.Millisecond
		slog.WarnContext(ctx, "retrying transaction", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// IsRetryableError reports serialization failures (40001) and deadlocks (40P01).
func IsRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// WithDefaultRetry runs fn at read committed with the default retry budget.
// Ledger writes rely on the account version check, not on the isolation level.
func WithDefaultRetry[T any](ctx context.Context, db TxStarter, fn func(tx pgx.Tx) (T, error)) (T, error) {
	return RunInTxWithRetry(ctx, db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, defaultTxRetries, fn)
}
