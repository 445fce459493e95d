package repository

import (
	"context"
	"time"

	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"
)

type OutboxRepository struct {
	db DBTX
}

func NewOutboxRepository(db DBTX) shared.OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO outbox_events (topic, payload, run_at) VALUES ($1, $2, $3)`,
		topic, payload, pgconv.TimeToPgtype(runAt),
	)
	return classifyErr("failed to append outbox event", err)
}
