package repository

import (
	"context"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/infra"
	"book-locker/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type lockerRow struct {
	ID                uuid.UUID          `db:"id"`
	Number            int32              `db:"number"`
	Status            string             `db:"status"`
	IsBroken          bool               `db:"is_broken"`
	FaultKind         string             `db:"fault_kind"`
	OpenedAt          pgtype.Timestamptz `db:"opened_at"`
	FaultedAt         pgtype.Timestamptz `db:"faulted_at"`
	FaultAcknowledged bool               `db:"fault_acknowledged"`
	Escalated         bool               `db:"escalated"`
	LastHeartbeatAt   pgtype.Timestamptz `db:"last_heartbeat_at"`
	ReservationID     pgtype.UUID        `db:"reservation_id"`
	CreatedAt         time.Time          `db:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at"`
}

var lockerColumns = []any{
	"id", "number", "status", "is_broken", "fault_kind", "opened_at", "faulted_at",
	"fault_acknowledged", "escalated", "last_heartbeat_at", "reservation_id", "created_at", "updated_at",
}

type LockerRepository struct {
	db DBTX
}

func NewLockerRepository(db DBTX) *LockerRepository {
	return &LockerRepository{db: db}
}

func (r *LockerRepository) Create(ctx context.Context, l *locker.Locker) error {
	stmt := dialect.Insert(tableLockers).Prepared(true).Rows(lockerRecord(l))
	if _, err := exec(ctx, r.db, stmt); err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("compartment number already in use", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create locker", err)
	}
	return nil
}

func (r *LockerRepository) Update(ctx context.Context, l *locker.Locker) error {
	rec := lockerRecord(l)
	delete(rec, "id")
	delete(rec, "created_at")

	stmt := dialect.Update(tableLockers).Prepared(true).
		Set(rec).
		Where(goqu.C("id").Eq(l.ID()))
	tag, err := exec(ctx, r.db, stmt)
	if err != nil {
		return infra.WrapRepoErr("failed to update locker", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("locker not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *LockerRepository) FindByID(ctx context.Context, id uuid.UUID) (*locker.Locker, error) {
	stmt := dialect.From(tableLockers).Prepared(true).
		Select(lockerColumns...).
		Where(goqu.C("id").Eq(id))
	list, err := r.collect(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, infra.WrapRepoErr("locker not found", nil, infra.KindNotFound)
	}
	return list[0], nil
}

func (r *LockerRepository) List(ctx context.Context) ([]*locker.Locker, error) {
	return r.ListByStatus(ctx)
}

func (r *LockerRepository) ListByStatus(ctx context.Context, statuses ...locker.Status) ([]*locker.Locker, error) {
	stmt := dialect.From(tableLockers).Prepared(true).
		Select(lockerColumns...).
		Order(goqu.C("number").Asc())
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, s.String())
		}
		stmt = stmt.Where(goqu.C("status").In(values))
	}
	return r.collect(ctx, stmt)
}

func (r *LockerRepository) collect(ctx context.Context, stmt *goqu.SelectDataset) ([]*locker.Locker, error) {
	rows, err := query(ctx, r.db, stmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query lockers", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[lockerRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan lockers", err)
	}

	out := make([]*locker.Locker, 0, len(records))
	for _, row := range records {
		out = append(out, toLocker(row))
	}
	return out, nil
}

func lockerRecord(l *locker.Locker) goqu.Record {
	return goqu.Record{
		"id":                 l.ID(),
		"number":             l.Number(),
		"status":             l.Status().String(),
		"is_broken":          l.IsBroken(),
		"fault_kind":         l.FaultKind().String(),
		"opened_at":          pgconv.TimePtrToPgtype(l.OpenedAt()),
		"faulted_at":         pgconv.TimePtrToPgtype(l.FaultedAt()),
		"fault_acknowledged": l.FaultAcknowledged(),
		"escalated":          l.Escalated(),
		"last_heartbeat_at":  pgconv.TimePtrToPgtype(l.LastHeartbeatAt()),
		"reservation_id":     pgconv.UUIDPtrToPgtype(l.ReservationID()),
		"created_at":         l.CreatedAt(),
		"updated_at":         l.UpdatedAt(),
	}
}

func toLocker(row lockerRow) *locker.Locker {
	return locker.Reconstruct(locker.Snapshot{
		ID:                row.ID,
		Number:            int(row.Number),
		Status:            locker.Status(row.Status),
		IsBroken:          row.IsBroken,
		FaultKind:         locker.FaultKind(row.FaultKind),
		OpenedAt:          pgconv.TimePtrFromPgtype(row.OpenedAt),
		FaultedAt:         pgconv.TimePtrFromPgtype(row.FaultedAt),
		FaultAcknowledged: row.FaultAcknowledged,
		Escalated:         row.Escalated,
		LastHeartbeatAt:   pgconv.TimePtrFromPgtype(row.LastHeartbeatAt),
		ReservationID:     pgconv.UUIDPtrFromPgtype(row.ReservationID),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	})
}
