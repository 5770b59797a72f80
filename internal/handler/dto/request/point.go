package request

import "github.com/google/uuid"

type CreditPointsRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Amount int64     `json:"amount" binding:"required,min=1"`
	Reason string    `json:"reason" binding:"max=200"`
}
