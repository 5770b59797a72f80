package repository

import (
	"context"
	"time"

	"book-locker/internal/domain/point"
	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/pgconv"
	"book-locker/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type accountRow struct {
	UserID    uuid.UUID `db:"user_id"`
	Total     int64     `db:"total"`
	Earned    int64     `db:"earned"`
	Spent     int64     `db:"spent"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}

type holdRow struct {
	ReservationID uuid.UUID `db:"reservation_id"`
	UserID        uuid.UUID `db:"user_id"`
	Amount        int64     `db:"amount"`
	CreatedAt     time.Time `db:"created_at"`
}

type transactionRow struct {
	ID            uuid.UUID   `db:"id"`
	UserID        uuid.UUID   `db:"user_id"`
	PointChange   int64       `db:"point_change"`
	TransType     string      `db:"trans_type"`
	Reason        string      `db:"reason"`
	ReservationID pgtype.UUID `db:"reservation_id"`
	OccurredAt    time.Time   `db:"occurred_at"`
}

// AccountRepository stores the account row, its holds and its history.
// Holds are rewritten as a set on every save inside one transaction.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Get(ctx context.Context, userID uuid.UUID) (*point.Account, error) {
	return getAccount(ctx, r.pool, userID)
}

func getAccount(ctx context.Context, db DBTX, userID uuid.UUID) (*point.Account, error) {
	stmt := dialect.From(tablePointAccounts).Prepared(true).
		Select("user_id", "total", "earned", "spent", "version", "updated_at").
		Where(goqu.C("user_id").Eq(userID))
	rows, err := query(ctx, db, stmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query point account", err)
	}
	acc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[accountRow])
	if err != nil {
		if pgconv.IsNoRows(err) {
			return point.NewAccount(userID), nil
		}
		return nil, infra.WrapRepoErr("failed to scan point account", err)
	}

	holdStmt := dialect.From(tablePointHolds).Prepared(true).
		Select("reservation_id", "user_id", "amount", "created_at").
		Where(goqu.C("user_id").Eq(userID))
	rows, err = query(ctx, db, holdStmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query point holds", err)
	}
	holdRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[holdRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan point holds", err)
	}

	holds := make([]point.Hold, 0, len(holdRows))
	for _, h := range holdRows {
		holds = append(holds, point.Hold{
			ReservationID: h.ReservationID,
			UserID:        h.UserID,
			Amount:        h.Amount,
			CreatedAt:     h.CreatedAt,
		})
	}
	return point.ReconstructAccount(acc.UserID, acc.Total, acc.Earned, acc.Spent, holds, acc.Version, acc.UpdatedAt), nil
}

func (r *AccountRepository) Save(ctx context.Context, acc *point.Account, entries ...point.Transaction) error {
	_, err := shared.WithDefaultRetry(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, saveAccount(ctx, tx, acc, entries)
	})
	if err != nil {
		return err
	}
	acc.NextVersion()
	return nil
}

func saveAccount(ctx context.Context, tx DBTX, acc *point.Account, entries []point.Transaction) error {
	if err := writeAccountRow(ctx, tx, acc); err != nil {
		return err
	}

	del := dialect.Delete(tablePointHolds).Prepared(true).Where(goqu.C("user_id").Eq(acc.UserID()))
	if _, err := exec(ctx, tx, del); err != nil {
		return infra.WrapRepoErr("failed to clear point holds", err)
	}

	if holds := acc.Holds(); len(holds) > 0 {
		records := make([]any, 0, len(holds))
		for _, h := range holds {
			records = append(records, goqu.Record{
				"reservation_id": h.ReservationID,
				"user_id":        h.UserID,
				"amount":         h.Amount,
				"created_at":     h.CreatedAt,
			})
		}
		if _, err := exec(ctx, tx, dialect.Insert(tablePointHolds).Prepared(true).Rows(records...)); err != nil {
			return infra.WrapRepoErr("failed to write point holds", err)
		}
	}

	if len(entries) > 0 {
		records := make([]any, 0, len(entries))
		for _, t := range entries {
			records = append(records, goqu.Record{
				"id":             t.ID,
				"user_id":        t.UserID,
				"point_change":   t.Change,
				"trans_type":     t.Type.String(),
				"reason":         t.Reason,
				"reservation_id": pgconv.UUIDPtrToPgtype(t.ReservationID),
				"occurred_at":    t.OccurredAt,
			})
		}
		if _, err := exec(ctx, tx, dialect.Insert(tablePointTransactions).Prepared(true).Rows(records...)); err != nil {
			return infra.WrapRepoErr("failed to append point transactions", err)
		}
	}
	return nil
}

// writeAccountRow inserts a first-time account or updates it when the
// stored version still matches the one that was read.
func writeAccountRow(ctx context.Context, tx DBTX, acc *point.Account) error {
	var (
		stmt sqlBuilder
		next = acc.Version() + 1
	)
	if acc.Version() == 0 {
		stmt = dialect.Insert(tablePointAccounts).Prepared(true).
			Rows(goqu.Record{
				"user_id":    acc.UserID(),
				"total":      acc.Total(),
				"earned":     acc.Earned(),
				"spent":      acc.Spent(),
				"version":    next,
				"updated_at": acc.UpdatedAt(),
			}).
			OnConflict(goqu.DoNothing())
	} else {
		stmt = dialect.Update(tablePointAccounts).Prepared(true).
			Set(goqu.Record{
				"total":      acc.Total(),
				"earned":     acc.Earned(),
				"spent":      acc.Spent(),
				"version":    next,
				"updated_at": acc.UpdatedAt(),
			}).
			Where(goqu.C("user_id").Eq(acc.UserID()), goqu.C("version").Eq(acc.Version()))
	}

	tag, err := exec(ctx, tx, stmt)
	if err != nil {
		return infra.WrapRepoErr("failed to write point account", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Mark(
			infra.WrapRepoErr("point account was modified concurrently", nil, infra.KindVersionConflict),
			shared.ErrVersionConflict,
		)
	}
	return nil
}

func (r *AccountRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]point.Transaction, error) {
	stmt := dialect.From(tablePointTransactions).Prepared(true).
		Select("id", "user_id", "point_change", "trans_type", "reason", "reservation_id", "occurred_at").
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("occurred_at").Desc(), goqu.C("id").Asc())
	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}

	rows, err := query(ctx, r.pool, stmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query point transactions", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[transactionRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan point transactions", err)
	}

	out := make([]point.Transaction, 0, len(records))
	for _, row := range records {
		out = append(out, point.Transaction{
			ID:            row.ID,
			UserID:        row.UserID,
			Change:        row.PointChange,
			Type:          point.TransactionType(row.TransType),
			Reason:        row.Reason,
			ReservationID: pgconv.UUIDPtrFromPgtype(row.ReservationID),
			OccurredAt:    row.OccurredAt,
		})
	}
	return out, nil
}
