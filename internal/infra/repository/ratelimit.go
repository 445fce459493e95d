package repository

import (
	"context"
	"time"

	"enrollment-core/internal/domain/ratelimit"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgtype"
)

// RateLimitStore keeps windows outside the enrollment transactions; the
// gate tolerates its failures, so every error is reported as-is and never
// retried here.
type RateLimitStore struct {
	db DBTX
}

func NewRateLimitStore(db DBTX) commands.RateLimitStore {
	return &RateLimitStore{db: db}
}

func (s *RateLimitStore) Find(ctx context.Context, key string) (*ratelimit.Window, error) {
	var (
		windowStart  pgtype.Timestamptz
		attempts     int
		blockedUntil pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx,
		`SELECT window_start, attempts, blocked_until FROM rate_limit_windows WHERE key = $1`,
		key,
	).Scan(&windowStart, &attempts, &blockedUntil)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, classifyErr("failed to find rate limit window", err)
	}
	return &ratelimit.Window{
		Key:          key,
		WindowStart:  pgconv.TimeFromPgtype(windowStart),
		Attempts:     attempts,
		BlockedUntil: pgconv.TimePtrFromPgtype(blockedUntil),
	}, nil
}

func (s *RateLimitStore) Save(ctx context.Context, w ratelimit.Window) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rate_limit_windows (key, window_start, attempts, blocked_until, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (key) DO UPDATE
		 SET window_start = EXCLUDED.window_start,
		     attempts = EXCLUDED.attempts,
		     blocked_until = EXCLUDED.blocked_until,
		     updated_at = now()`,
		w.Key,
		pgconv.TimeToPgtype(w.WindowStart),
		w.Attempts,
		pgconv.TimePtrToPgtype(w.BlockedUntil),
	)
	return classifyErr("failed to save rate limit window", err)
}

func (s *RateLimitStore) RecordAttempt(ctx context.Context, a ratelimit.Attempt) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rate_limit_attempts (actor_id, action, origin, attempted_at)
		 VALUES ($1, $2, $3, $4)`,
		pgconv.UUIDToPgtype(a.ActorID), string(a.Action), a.Origin, pgconv.TimeToPgtype(a.At),
	)
	return classifyErr("failed to record rate limit attempt", err)
}

func (s *RateLimitStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM rate_limit_windows
		 WHERE updated_at < $1 AND (blocked_until IS NULL OR blocked_until < $1)`,
		pgconv.TimeToPgtype(cutoff),
	)
	if err != nil {
		return 0, classifyErr("failed to delete expired windows", err)
	}
	return tag.RowsAffected(), nil
}
