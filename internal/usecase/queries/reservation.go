package queries

import (
	"context"

	"book-locker/internal/domain/user"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/reservation_mock.go -package=queriesmock

type ReservationQueries interface {
	// GetByID is restricted to the owner and admins.
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	reservations shared.ReservationStore
}

func NewReservationQueries(reservations shared.ReservationStore) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error) {
	res, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Hide foreign reservations behind NotFound
	if res.UserID() != actor.ID && !actor.IsAdmin() {
		return nil, errs.Kind(errs.ErrNotFound, "reservation %s not found", id)
	}
	return NewReservationView(res), nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error) {
	list, err := q.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "list reservations")
	}

	views := make([]*ReservationView, 0, len(list))
	for _, r := range list {
		views = append(views, NewReservationView(r))
	}
	return views, nil
}
