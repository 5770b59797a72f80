package notify

import (
	"context"
	"log/slog"

	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
)

// LogNotifier writes notifications and alerts to the application log.
// It backs the memory storage driver.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, userID uuid.UUID, kind shared.NotificationKind, payload map[string]any) error {
	n.logger.InfoContext(ctx, "notification", "user_id", userID, "kind", kind, "payload", payload)
	return nil
}

func (n *LogNotifier) Raise(ctx context.Context, alert shared.Alert) error {
	attrs := []any{"kind", alert.Kind, "message", alert.Message, "raised_at", alert.RaisedAt}
	if alert.LockerID != nil {
		attrs = append(attrs, "locker_id", *alert.LockerID)
	}
	if alert.ReservationID != nil {
		attrs = append(attrs, "reservation_id", *alert.ReservationID)
	}
	if alert.FaultKind != "" {
		attrs = append(attrs, "fault_kind", alert.FaultKind)
	}
	n.logger.ErrorContext(ctx, "operator alert", attrs...)
	return nil
}
