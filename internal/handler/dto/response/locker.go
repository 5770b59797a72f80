package response

import (
	"time"

	"book-locker/internal/usecase/queries"

	"github.com/google/uuid"
)

type LockerResponse struct {
	ID                uuid.UUID  `json:"id"`
	Number            int        `json:"number"`
	Status            string     `json:"status"`
	IsBroken          bool       `json:"isBroken"`
	FaultKind         string     `json:"faultKind,omitempty"`
	FaultAcknowledged bool       `json:"faultAcknowledged"`
	OpenedAt          *time.Time `json:"openedAt,omitempty"`
	FaultedAt         *time.Time `json:"faultedAt,omitempty"`
	LastHeartbeatAt   *time.Time `json:"lastHeartbeatAt,omitempty"`
	ReservationID     *uuid.UUID `json:"reservationId,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type LogEntryResponse struct {
	ID           uuid.UUID `json:"id"`
	LockerID     uuid.UUID `json:"lockerId"`
	UserID       uuid.UUID `json:"userId"`
	EventType    string    `json:"eventType"`
	ResultStatus string    `json:"resultStatus"`
	Reason       string    `json:"reason,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

func FromLockerView(v *queries.LockerView) *LockerResponse {
	return &LockerResponse{
		ID:                v.ID,
		Number:            v.Number,
		Status:            v.Status,
		IsBroken:          v.IsBroken,
		FaultKind:         v.FaultKind,
		FaultAcknowledged: v.FaultAcknowledged,
		OpenedAt:          v.OpenedAt,
		FaultedAt:         v.FaultedAt,
		LastHeartbeatAt:   v.LastHeartbeatAt,
		ReservationID:     v.ReservationID,
		UpdatedAt:         v.UpdatedAt,
	}
}

func FromLogEntryView(v queries.LogEntryView) LogEntryResponse {
	return LogEntryResponse{
		ID:           v.ID,
		LockerID:     v.LockerID,
		UserID:       v.UserID,
		EventType:    v.EventType,
		ResultStatus: v.ResultStatus,
		Reason:       v.Reason,
		Detail:       v.Detail,
		OccurredAt:   v.OccurredAt,
	}
}
