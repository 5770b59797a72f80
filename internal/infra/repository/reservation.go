package repository

import (
	"context"
	"time"

	"book-locker/internal/domain/reservation"
	"book-locker/internal/infra"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const constraintActiveBook = "uq_reservations_active_book"

type reservationRow struct {
	ID         uuid.UUID          `db:"id"`
	BookID     uuid.UUID          `db:"book_id"`
	UserID     uuid.UUID          `db:"user_id"`
	LockerID   uuid.UUID          `db:"locker_id"`
	Price      int64              `db:"price"`
	Status     string             `db:"status"`
	ReservedAt time.Time          `db:"reserved_at"`
	ExpiresAt  time.Time          `db:"expires_at"`
	ClosedAt   pgtype.Timestamptz `db:"closed_at"`
	ClosedBy   pgtype.UUID        `db:"closed_by"`
}

var reservationColumns = []any{
	"id", "book_id", "user_id", "locker_id", "price", "status",
	"reserved_at", "expires_at", "closed_at", "closed_by",
}

type ReservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	stmt := dialect.Insert(tableReservations).Prepared(true).Rows(goqu.Record{
		"id":          res.ID(),
		"book_id":     res.BookID(),
		"user_id":     res.UserID(),
		"locker_id":   res.LockerID(),
		"price":       res.Price(),
		"status":      res.Status().String(),
		"reserved_at": res.ReservedAt(),
		"expires_at":  res.ExpiresAt(),
		"closed_at":   pgconv.TimePtrToPgtype(res.ClosedAt()),
		"closed_by":   pgconv.UUIDPtrToPgtype(res.ClosedBy()),
	})
	if _, err := exec(ctx, r.db, stmt); err != nil {
		if pgconv.IsUniqueViolation(err) && pgconv.ConstraintName(err) == constraintActiveBook {
			return errs.Mark(infra.WrapRepoErr("book already has an active reservation", err, infra.KindDuplicateKey),
				errs.ErrBookAlreadyReserved)
		}
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("reservation references unknown locker", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

// Update writes the mutable columns. Only the status transition and its
// closing metadata change after creation.
func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	stmt := dialect.Update(tableReservations).Prepared(true).
		Set(goqu.Record{
			"status":    res.Status().String(),
			"closed_at": pgconv.TimePtrToPgtype(res.ClosedAt()),
			"closed_by": pgconv.UUIDPtrToPgtype(res.ClosedBy()),
		}).
		Where(goqu.C("id").Eq(res.ID()))
	tag, err := exec(ctx, r.db, stmt)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	list, err := r.collect(ctx, r.selectStmt().Where(goqu.C("id").Eq(id)))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return list[0], nil
}

func (r *ReservationRepository) ListActive(ctx context.Context) ([]*reservation.Reservation, error) {
	return r.collect(ctx, r.selectStmt().
		Where(goqu.C("status").Eq(reservation.StatusActive.String())).
		Order(goqu.C("expires_at").Asc(), goqu.C("id").Asc()))
}

func (r *ReservationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	stmt := r.selectStmt().
		Where(
			goqu.C("status").Eq(reservation.StatusActive.String()),
			goqu.C("expires_at").Lte(now),
		).
		Order(goqu.C("expires_at").Asc(), goqu.C("id").Asc())
	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}
	return r.collect(ctx, stmt)
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.collect(ctx, r.selectStmt().
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("reserved_at").Desc(), goqu.C("id").Asc()))
}

func (r *ReservationRepository) selectStmt() *goqu.SelectDataset {
	return dialect.From(tableReservations).Prepared(true).Select(reservationColumns...)
}

func (r *ReservationRepository) collect(ctx context.Context, stmt *goqu.SelectDataset) ([]*reservation.Reservation, error) {
	rows, err := query(ctx, r.db, stmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query reservations", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[reservationRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan reservations", err)
	}

	out := make([]*reservation.Reservation, 0, len(records))
	for _, row := range records {
		out = append(out, reservation.ReconstructReservation(
			row.ID, row.BookID, row.UserID, row.LockerID,
			row.Price,
			reservation.Status(row.Status),
			row.ReservedAt, row.ExpiresAt,
			pgconv.TimePtrFromPgtype(row.ClosedAt),
			pgconv.UUIDPtrFromPgtype(row.ClosedBy),
		))
	}
	return out, nil
}
