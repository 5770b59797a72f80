//go:build unit || e2e

package builder

import (
	"time"

	"book-locker/internal/domain/point"

	"github.com/google/uuid"
)

type AccountBuilder struct {
	UserID  uuid.UUID
	Total   int64
	Earned  int64
	Spent   int64
	Holds   []point.Hold
	Version int64
}

func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{UserID: uuid.New()}
}

func (b *AccountBuilder) WithUser(id uuid.UUID) *AccountBuilder {
	b.UserID = id
	return b
}

// WithPoints sets an account that earned everything it holds.
func (b *AccountBuilder) WithPoints(total int64) *AccountBuilder {
	b.Total = total
	b.Earned = total
	return b
}

func (b *AccountBuilder) WithHold(reservationID uuid.UUID, amount int64) *AccountBuilder {
	b.Holds = append(b.Holds, point.Hold{
		ReservationID: reservationID,
		UserID:        b.UserID,
		Amount:        amount,
		CreatedAt:     time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
	})
	return b
}

func (b *AccountBuilder) WithVersion(v int64) *AccountBuilder {
	b.Version = v
	return b
}

func (b *AccountBuilder) Build() *point.Account {
	return point.ReconstructAccount(b.UserID, b.Total, b.Earned, b.Spent, b.Holds, b.Version, time.Time{})
}
