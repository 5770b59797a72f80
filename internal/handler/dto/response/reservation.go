package response

import (
	"time"

	"book-locker/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"bookId"`
	UserID     uuid.UUID  `json:"userId"`
	LockerID   uuid.UUID  `json:"lockerId"`
	Price      int64      `json:"price"`
	Status     string     `json:"status"`
	ReservedAt time.Time  `json:"reservedAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
	ClosedBy   *uuid.UUID `json:"closedBy,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:         v.ID,
		BookID:     v.BookID,
		UserID:     v.UserID,
		LockerID:   v.LockerID,
		Price:      v.Price,
		Status:     v.Status,
		ReservedAt: v.ReservedAt,
		ExpiresAt:  v.ExpiresAt,
		ClosedAt:   v.ClosedAt,
		ClosedBy:   v.ClosedBy,
	}
}
