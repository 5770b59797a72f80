package queries

import (
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/point"
	"book-locker/internal/domain/reservation"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

type HoldView struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type BalanceView struct {
	UserID    uuid.UUID  `json:"user_id"`
	Total     int64      `json:"total"`
	Earned    int64      `json:"earned"`
	Spent     int64      `json:"spent"`
	Held      int64      `json:"held"`
	Available int64      `json:"available"`
	Holds     []HoldView `json:"holds"`
}

type TransactionView struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Change        int64      `json:"change"`
	Type          string     `json:"type"`
	Reason        string     `json:"reason"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type LockerView struct {
	ID                uuid.UUID  `json:"id"`
	Number            int        `json:"number"`
	Status            string     `json:"status"`
	IsBroken          bool       `json:"is_broken"`
	FaultKind         string     `json:"fault_kind,omitempty"`
	FaultAcknowledged bool       `json:"fault_acknowledged"`
	OpenedAt          *time.Time `json:"opened_at,omitempty"`
	FaultedAt         *time.Time `json:"faulted_at,omitempty"`
	LastHeartbeatAt   *time.Time `json:"last_heartbeat_at,omitempty"`
	ReservationID     *uuid.UUID `json:"reservation_id,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type LogEntryView struct {
	ID           uuid.UUID `json:"id"`
	LockerID     uuid.UUID `json:"locker_id"`
	UserID       uuid.UUID `json:"user_id"`
	EventType    string    `json:"event_type"`
	ResultStatus string    `json:"result_status"`
	Reason       string    `json:"reason,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type ReservationView struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"book_id"`
	UserID     uuid.UUID  `json:"user_id"`
	LockerID   uuid.UUID  `json:"locker_id"`
	Price      int64      `json:"price"`
	Status     string     `json:"status"`
	ReservedAt time.Time  `json:"reserved_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	ClosedBy   *uuid.UUID `json:"closed_by,omitempty"`
}

func NewBalanceView(acc *point.Account) *BalanceView {
	b := acc.Balance()
	holds := acc.Holds()
	view := &BalanceView{
		UserID:    b.UserID,
		Total:     b.Total,
		Earned:    b.Earned,
		Spent:     b.Spent,
		Held:      b.Held,
		Available: b.Available,
		Holds:     make([]HoldView, 0, len(holds)),
	}
	for _, h := range holds {
		view.Holds = append(view.Holds, HoldView{
			ReservationID: h.ReservationID,
			Amount:        h.Amount,
			CreatedAt:     h.CreatedAt,
		})
	}
	return view
}

func NewTransactionView(t point.Transaction) TransactionView {
	return TransactionView{
		ID:            t.ID,
		UserID:        t.UserID,
		Change:        t.Change,
		Type:          t.Type.String(),
		Reason:        t.Reason,
		ReservationID: t.ReservationID,
		OccurredAt:    t.OccurredAt,
	}
}

func NewLockerView(l *locker.Locker) *LockerView {
	return &LockerView{
		ID:                l.ID(),
		Number:            l.Number(),
		Status:            l.Status().String(),
		IsBroken:          l.IsBroken(),
		FaultKind:         l.FaultKind().String(),
		FaultAcknowledged: l.FaultAcknowledged(),
		OpenedAt:          l.OpenedAt(),
		FaultedAt:         l.FaultedAt(),
		LastHeartbeatAt:   l.LastHeartbeatAt(),
		ReservationID:     l.ReservationID(),
		UpdatedAt:         l.UpdatedAt(),
	}
}

func NewLogEntryView(e locker.LogEntry) LogEntryView {
	return LogEntryView{
		ID:           e.ID,
		LockerID:     e.LockerID,
		UserID:       e.UserID,
		EventType:    string(e.EventType),
		ResultStatus: string(e.ResultStatus),
		Reason:       e.Reason,
		Detail:       e.Detail,
		OccurredAt:   e.OccurredAt,
	}
}

func NewReservationView(r *reservation.Reservation) *ReservationView {
	return &ReservationView{
		ID:         r.ID(),
		BookID:     r.BookID(),
		UserID:     r.UserID(),
		LockerID:   r.LockerID(),
		Price:      r.Price(),
		Status:     r.Status().String(),
		ReservedAt: r.ReservedAt(),
		ExpiresAt:  r.ExpiresAt(),
		ClosedAt:   r.ClosedAt(),
		ClosedBy:   r.ClosedBy(),
	}
}
