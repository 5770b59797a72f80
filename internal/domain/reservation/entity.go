package reservation

import (
	"time"

	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

// Reservation is immutable once its status is terminal.
type Reservation struct {
	id         uuid.UUID
	bookID     uuid.UUID
	userID     uuid.UUID
	lockerID   uuid.UUID
	price      int64
	status     Status
	reservedAt time.Time
	expiresAt  time.Time
	closedAt   *time.Time
	closedBy   *uuid.UUID
}

func NewReservation(
	id, bookID, userID, lockerID uuid.UUID,
	price int64,
	now time.Time,
	holdWindow time.Duration,
) (*Reservation, error) {
	if price < 0 {
		return nil, errs.Kind(errs.ErrInvalidArgument, "price cannot be negative: %d", price)
	}
	if holdWindow <= 0 {
		return nil, errs.Kind(errs.ErrInvalidArgument, "hold window must be positive: %s", holdWindow)
	}
	return &Reservation{
		id:         id,
		bookID:     bookID,
		userID:     userID,
		lockerID:   lockerID,
		price:      price,
		status:     StatusActive,
		reservedAt: now,
		expiresAt:  now.Add(holdWindow),
	}, nil
}

func ReconstructReservation(
	id, bookID, userID, lockerID uuid.UUID,
	price int64,
	status Status,
	reservedAt, expiresAt time.Time,
	closedAt *time.Time,
	closedBy *uuid.UUID,
) *Reservation {
	return &Reservation{
		id:         id,
		bookID:     bookID,
		userID:     userID,
		lockerID:   lockerID,
		price:      price,
		status:     status,
		reservedAt: reservedAt,
		expiresAt:  expiresAt,
		closedAt:   closedAt,
		closedBy:   closedBy,
	}
}

// IsActiveAt reports ACTIVE status with the hold window still open.
func (r *Reservation) IsActiveAt(now time.Time) bool {
	return r.status == StatusActive && now.Before(r.expiresAt)
}

// IsDue reports an ACTIVE reservation whose hold window has elapsed.
func (r *Reservation) IsDue(now time.Time) bool {
	return r.status == StatusActive && !now.Before(r.expiresAt)
}

func (r *Reservation) Fulfill(now time.Time, actor uuid.UUID) error {
	if err := r.requireOpenWindow(now, StatusFulfilled); err != nil {
		return err
	}
	r.close(StatusFulfilled, now, actor)
	return nil
}

func (r *Reservation) Cancel(now time.Time, actor uuid.UUID) error {
	if err := r.requireOpenWindow(now, StatusCancelled); err != nil {
		return err
	}
	r.close(StatusCancelled, now, actor)
	return nil
}

// Expire is driven by the sweeper only.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusActive {
		return r.invalid(StatusExpired)
	}
	if now.Before(r.expiresAt) {
		return errs.Kind(errs.ErrInvalidTransition,
			"reservation %s is not due until %s", r.id, r.expiresAt.Format(time.RFC3339))
	}
	r.close(StatusExpired, now, uuid.Nil)
	return nil
}

func (r *Reservation) requireOpenWindow(now time.Time, to Status) error {
	if r.status != StatusActive {
		return r.invalid(to)
	}
	if !now.Before(r.expiresAt) {
		return errs.Kind(errs.ErrInvalidTransition,
			"reservation %s hold window elapsed at %s", r.id, r.expiresAt.Format(time.RFC3339))
	}
	return nil
}

func (r *Reservation) invalid(to Status) error {
	return errs.Kind(errs.ErrInvalidTransition, "reservation %s cannot move from %s to %s", r.id, r.status, to)
}

func (r *Reservation) close(to Status, now time.Time, actor uuid.UUID) {
	r.status = to
	r.closedAt = &now
	if actor != uuid.Nil {
		r.closedBy = &actor
	}
}

func (r *Reservation) Clone() *Reservation {
	c := *r
	if r.closedAt != nil {
		t := *r.closedAt
		c.closedAt = &t
	}
	if r.closedBy != nil {
		id := *r.closedBy
		c.closedBy = &id
	}
	return &c
}

func (r *Reservation) ID() uuid.UUID         { return r.id }
func (r *Reservation) BookID() uuid.UUID     { return r.bookID }
func (r *Reservation) UserID() uuid.UUID     { return r.userID }
func (r *Reservation) LockerID() uuid.UUID   { return r.lockerID }
func (r *Reservation) Price() int64          { return r.price }
func (r *Reservation) Status() Status        { return r.status }
func (r *Reservation) ReservedAt() time.Time { return r.reservedAt }
func (r *Reservation) ExpiresAt() time.Time  { return r.expiresAt }
func (r *Reservation) ClosedAt() *time.Time  { return r.closedAt }
func (r *Reservation) ClosedBy() *uuid.UUID  { return r.closedBy }
