// Package repository implements the storage ports on PostgreSQL. Statements
// are built with goqu in prepared mode and executed through pgx.
package repository

import (
	"context"

	"book-locker/internal/infra"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const dialectPostgres = "postgres"

var dialect = goqu.Dialect(dialectPostgres)

const (
	tableBooks             = "books"
	tableLockers           = "lockers"
	tableReservations      = "reservations"
	tablePointAccounts     = "point_accounts"
	tablePointHolds        = "point_holds"
	tablePointTransactions = "point_transactions"
	tableSystemLogs        = "system_logs"
	tableNotificationJobs  = "notification_jobs"
)

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func toSQL(b sqlBuilder) (string, []any, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return "", nil, infra.WrapRepoErr("failed to build sql", err)
	}
	return query, args, nil
}

func exec(ctx context.Context, db DBTX, b sqlBuilder) (pgconn.CommandTag, error) {
	query, args, err := toSQL(b)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return db.Exec(ctx, query, args...)
}

func query(ctx context.Context, db DBTX, b sqlBuilder) (pgx.Rows, error) {
	q, args, err := toSQL(b)
	if err != nil {
		return nil, err
	}
	return db.Query(ctx, q, args...)
}
