//go:build unit || e2e

package builder

import (
	"time"

	"book-locker/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	LockerID   uuid.UUID
	Price      int64
	Status     reservation.Status
	ReservedAt time.Time
	ExpiresAt  time.Time
	ClosedAt   *time.Time
	ClosedBy   *uuid.UUID
}

func NewReservationBuilder() *ReservationBuilder {
	reservedAt := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:         uuid.New(),
		BookID:     uuid.New(),
		UserID:     uuid.New(),
		LockerID:   uuid.New(),
		Price:      300,
		Status:     reservation.StatusActive,
		ReservedAt: reservedAt,
		ExpiresAt:  reservedAt.Add(24 * time.Hour),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithUser(id uuid.UUID) *ReservationBuilder {
	b.UserID = id
	return b
}

func (b *ReservationBuilder) WithBook(id uuid.UUID) *ReservationBuilder {
	b.BookID = id
	return b
}

func (b *ReservationBuilder) WithLocker(id uuid.UUID) *ReservationBuilder {
	b.LockerID = id
	return b
}

func (b *ReservationBuilder) WithPrice(p int64) *ReservationBuilder {
	b.Price = p
	return b
}

func (b *ReservationBuilder) ExpiringAt(t time.Time) *ReservationBuilder {
	b.ExpiresAt = t
	return b
}

func (b *ReservationBuilder) Closed(status reservation.Status, at time.Time) *ReservationBuilder {
	b.Status = status
	b.ClosedAt = &at
	return b
}

func (b *ReservationBuilder) Build() *reservation.Reservation {
	return reservation.ReconstructReservation(
		b.ID, b.BookID, b.UserID, b.LockerID,
		b.Price, b.Status, b.ReservedAt, b.ExpiresAt, b.ClosedAt, b.ClosedBy,
	)
}
