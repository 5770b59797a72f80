package locker

import (
	"strings"
	"time"

	"book-locker/internal/pkg/errs"

	"github.com/google/uuid"
)

// LogEntry is an append-only audit record of a locker event.
// UserID is uuid.Nil for transitions driven by the sweeper.
type LogEntry struct {
	ID           uuid.UUID
	LockerID     uuid.UUID
	UserID       uuid.UUID
	EventType    EventType
	OccurredAt   time.Time
	ResultStatus Result
	Reason       string
	Detail       string
}

func NewLogEntry(lockerID, userID uuid.UUID, event EventType, result Result, detail string, now time.Time) LogEntry {
	return LogEntry{
		ID:           uuid.New(),
		LockerID:     lockerID,
		UserID:       userID,
		EventType:    event,
		OccurredAt:   now,
		ResultStatus: result,
		Detail:       detail,
	}
}

// NewEmergencyLogEntry requires both the admin and the reason.
func NewEmergencyLogEntry(lockerID, adminID uuid.UUID, reason, detail string, now time.Time) (LogEntry, error) {
	reason = strings.TrimSpace(reason)
	if adminID == uuid.Nil {
		return LogEntry{}, errs.Kind(errs.ErrInvalidArgument, "emergency open requires an admin id")
	}
	if reason == "" {
		return LogEntry{}, errs.Kind(errs.ErrInvalidArgument, "emergency open requires a reason")
	}
	e := NewLogEntry(lockerID, adminID, EventEmergencyOpen, ResultSuccess, detail, now)
	e.Reason = reason
	return e, nil
}
