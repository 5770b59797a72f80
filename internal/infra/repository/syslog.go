package repository

import (
	"context"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/infra"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type systemLogRow struct {
	ID           uuid.UUID `db:"id"`
	LockerID     uuid.UUID `db:"locker_id"`
	UserID       uuid.UUID `db:"user_id"`
	EventType    string    `db:"event_type"`
	ResultStatus string    `db:"result_status"`
	Reason       string    `db:"reason"`
	Detail       string    `db:"detail"`
	OccurredAt   time.Time `db:"occurred_at"`
}

type SystemLogRepository struct {
	db DBTX
}

func NewSystemLogRepository(db DBTX) *SystemLogRepository {
	return &SystemLogRepository{db: db}
}

func (r *SystemLogRepository) Append(ctx context.Context, entry locker.LogEntry) error {
	stmt := dialect.Insert(tableSystemLogs).Prepared(true).Rows(goqu.Record{
		"id":            entry.ID,
		"locker_id":     entry.LockerID,
		"user_id":       entry.UserID,
		"event_type":    string(entry.EventType),
		"result_status": string(entry.ResultStatus),
		"reason":        entry.Reason,
		"detail":        entry.Detail,
		"occurred_at":   entry.OccurredAt,
	})
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return infra.WrapRepoErr("failed to append system log", err)
	}
	return nil
}

func (r *SystemLogRepository) ListByLocker(ctx context.Context, lockerID uuid.UUID, limit int) ([]locker.LogEntry, error) {
	stmt := dialect.From(tableSystemLogs).Prepared(true).
		Select("id", "locker_id", "user_id", "event_type", "result_status", "reason", "detail", "occurred_at").
		Where(goqu.C("locker_id").Eq(lockerID)).
		Order(goqu.C("occurred_at").Desc(), goqu.C("id").Asc())
	if limit > 0 {
		stmt = stmt.Limit(uint(limit))
	}

	rows, err := query(ctx, r.db, stmt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query system logs", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[systemLogRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan system logs", err)
	}

	out := make([]locker.LogEntry, 0, len(records))
	for _, row := range records {
		out = append(out, locker.LogEntry{
			ID:           row.ID,
			LockerID:     row.LockerID,
			UserID:       row.UserID,
			EventType:    locker.EventType(row.EventType),
			ResultStatus: locker.Result(row.ResultStatus),
			Reason:       row.Reason,
			Detail:       row.Detail,
			OccurredAt:   row.OccurredAt,
		})
	}
	return out, nil
}
