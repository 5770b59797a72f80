package point

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionEarn  TransactionType = "EARN"
	TransactionSpend TransactionType = "SPEND"
)

func (t TransactionType) String() string {
	return string(t)
}

// Transaction is an append-only record of a permanent balance change.
// Holds and releases are not recorded; they never change total.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Change        int64
	Type          TransactionType
	Reason        string
	ReservationID *uuid.UUID
	OccurredAt    time.Time
}

func NewEarnTransaction(userID uuid.UUID, amount int64, reason string, now time.Time) Transaction {
	return Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Change:     amount,
		Type:       TransactionEarn,
		Reason:     reason,
		OccurredAt: now,
	}
}

func NewSpendTransaction(hold Hold, now time.Time) Transaction {
	reservationID := hold.ReservationID
	return Transaction{
		ID:            uuid.New(),
		UserID:        hold.UserID,
		Change:        -hold.Amount,
		Type:          TransactionSpend,
		Reason:        "reservation fulfilled",
		ReservationID: &reservationID,
		OccurredAt:    now,
	}
}
