package queries

import (
	"context"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/user"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=locker.go -destination=../../../tests/mock/queries/locker_mock.go -package=queriesmock

type LockerQueries interface {
	GetLocker(ctx context.Context, id uuid.UUID) (*LockerView, error)
	// ListLockers filters by status when status is non-empty.
	ListLockers(ctx context.Context, status string) ([]*LockerView, error)
	ListLogs(ctx context.Context, actor user.Actor, lockerID uuid.UUID, limit int) ([]LogEntryView, error)
}

type lockerQueriesImpl struct {
	lockers shared.LockerStore
	logs    shared.SystemLogStore
}

func NewLockerQueries(lockers shared.LockerStore, logs shared.SystemLogStore) LockerQueries {
	return &lockerQueriesImpl{lockers: lockers, logs: logs}
}

func (q *lockerQueriesImpl) GetLocker(ctx context.Context, id uuid.UUID) (*LockerView, error) {
	l, err := q.lockers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewLockerView(l), nil
}

func (q *lockerQueriesImpl) ListLockers(ctx context.Context, status string) ([]*LockerView, error) {
	var (
		lockers []*locker.Locker
		err     error
	)
	if status == "" {
		lockers, err = q.lockers.List(ctx)
	} else {
		s := locker.Status(status)
		if !s.IsValid() {
			return nil, errs.Kind(errs.ErrInvalidArgument, "unknown locker status %q", status)
		}
		lockers, err = q.lockers.ListByStatus(ctx, s)
	}
	if err != nil {
		return nil, errs.Wrap(err, "list lockers")
	}

	views := make([]*LockerView, 0, len(lockers))
	for _, l := range lockers {
		views = append(views, NewLockerView(l))
	}
	return views, nil
}

func (q *lockerQueriesImpl) ListLogs(ctx context.Context, actor user.Actor, lockerID uuid.UUID, limit int) ([]LogEntryView, error) {
	if !actor.IsAdmin() {
		return nil, errs.Kind(errs.ErrUnauthorized, "system logs require admin")
	}
	if _, err := q.lockers.FindByID(ctx, lockerID); err != nil {
		return nil, err
	}

	entries, err := q.logs.ListByLocker(ctx, lockerID, ValidateLimit(limit))
	if err != nil {
		return nil, errs.Wrap(err, "list system logs")
	}

	views := make([]LogEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewLogEntryView(e))
	}
	return views, nil
}
