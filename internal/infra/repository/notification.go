package repository

import (
	"context"
	"time"

	"book-locker/internal/infra"

	"github.com/doug-martin/goqu/v9"
)

// Jobs are picked up by the delivery worker, which lives outside this service.
const JobStatusQueued = "queued"

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateJob queues a notification; payload must be JSON.
func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	stmt := dialect.Insert(tableNotificationJobs).Prepared(true).Rows(goqu.Record{
		"kind":    kind,
		"topic":   topic,
		"payload": string(payload),
		"run_at":  runAt,
		"status":  JobStatusQueued,
	})
	if _, err := exec(ctx, r.db, stmt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
