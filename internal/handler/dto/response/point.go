package response

import (
	"time"

	"book-locker/internal/usecase/queries"

	"github.com/google/uuid"
)

type HoldResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BalanceResponse struct {
	UserID    uuid.UUID      `json:"userId"`
	Total     int64          `json:"total"`
	Earned    int64          `json:"earned"`
	Spent     int64          `json:"spent"`
	Held      int64          `json:"held"`
	Available int64          `json:"available"`
	Holds     []HoldResponse `json:"holds"`
}

type TransactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	Change        int64      `json:"change"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}

func FromBalanceView(v *queries.BalanceView) *BalanceResponse {
	holds := make([]HoldResponse, 0, len(v.Holds))
	for _, h := range v.Holds {
		holds = append(holds, HoldResponse{
			ReservationID: h.ReservationID,
			Amount:        h.Amount,
			CreatedAt:     h.CreatedAt,
		})
	}
	return &BalanceResponse{
		UserID:    v.UserID,
		Total:     v.Total,
		Earned:    v.Earned,
		Spent:     v.Spent,
		Held:      v.Held,
		Available: v.Available,
		Holds:     holds,
	}
}

func FromTransactionView(v queries.TransactionView) TransactionResponse {
	return TransactionResponse{
		ID:            v.ID,
		Change:        v.Change,
		Type:          v.Type,
		Reason:        v.Reason,
		ReservationID: v.ReservationID,
		OccurredAt:    v.OccurredAt,
	}
}
