// Package notify implements the notification and alert collaborators.
package notify

import (
	"context"
	"time"

	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/shared"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	jobKindEmail = "email"
	jobKindAlert = "alert"
)

// JobWriter is the notification_jobs table.
type JobWriter interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

// Outbox queues notifications and alerts as jobs for an external delivery worker.
type Outbox struct {
	jobs  JobWriter
	clock clock.Clock
}

func NewOutbox(jobs JobWriter, clk clock.Clock) *Outbox {
	return &Outbox{jobs: jobs, clock: clk}
}

func (o *Outbox) Notify(ctx context.Context, userID uuid.UUID, kind shared.NotificationKind, payload map[string]any) error {
	body := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["user_id"] = userID
	body["type"] = string(kind)

	data, err := json.Marshal(body)
	if err != nil {
		return errs.Wrap(err, "encode notification payload")
	}
	return o.jobs.CreateJob(ctx, jobKindEmail, string(kind), data, o.clock.Now())
}

type alertPayload struct {
	Kind          string     `json:"kind"`
	LockerID      *uuid.UUID `json:"locker_id,omitempty"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	FaultKind     string     `json:"fault_kind,omitempty"`
	Message       string     `json:"message"`
	RaisedAt      time.Time  `json:"raised_at"`
}

func (o *Outbox) Raise(ctx context.Context, alert shared.Alert) error {
	data, err := json.Marshal(alertPayload{
		Kind:          string(alert.Kind),
		LockerID:      alert.LockerID,
		ReservationID: alert.ReservationID,
		FaultKind:     alert.FaultKind,
		Message:       alert.Message,
		RaisedAt:      alert.RaisedAt,
	})
	if err != nil {
		return errs.Wrap(err, "encode alert payload")
	}
	return o.jobs.CreateJob(ctx, jobKindAlert, string(alert.Kind), data, o.clock.Now())
}
