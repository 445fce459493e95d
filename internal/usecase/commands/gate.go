package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"enrollment-core/internal/domain/ratelimit"
	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// RateLimitStore persists per-key windows outside the enrollment
// transaction. Find returns (nil, nil) when no window exists for the key.
type RateLimitStore interface {
	Find(ctx context.Context, key string) (*ratelimit.Window, error)
	Save(ctx context.Context, w ratelimit.Window) error
	RecordAttempt(ctx context.Context, a ratelimit.Attempt) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimitedError carries the decision details a caller needs to render a
// retry-after response. It matches errs.ErrRateLimited via errors.Is.
type RateLimitedError struct {
	Decision ratelimit.Decision
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.Decision.ResetAt.Format(time.RFC3339))
}

func (e *RateLimitedError) Unwrap() error {
	return errs.ErrRateLimited
}

// Gate fronts every mutating operation. On a backing-store failure it fails
// open: losing a little limiting is preferred over refusing legitimate
// requests, in contrast to the capacity ledger which fails closed.
type Gate struct {
	store    RateLimitStore
	policies ratelimit.Policies
	clock    clock.Clock
}

func NewGate(store RateLimitStore, cfg config.RateLimitConfig, clk clock.Clock) *Gate {
	return &Gate{
		store:    store,
		policies: policiesFromConfig(cfg),
		clock:    clk,
	}
}

func policiesFromConfig(cfg config.RateLimitConfig) ratelimit.Policies {
	return ratelimit.Policies{
		ByAction: map[ratelimit.Action]ratelimit.Policy{
			ratelimit.ActionSubmitRequest: {
				Window:      cfg.SubmitWindow,
				MaxAttempts: cfg.SubmitMax,
				BlockFor:    cfg.SubmitBlock,
			},
			ratelimit.ActionJoinWaitlist: {
				Window:      cfg.JoinWindow,
				MaxAttempts: cfg.JoinMax,
				BlockFor:    cfg.JoinBlock,
			},
		},
		Default: ratelimit.Policy{
			Window:      cfg.DefaultWindow,
			MaxAttempts: cfg.DefaultMax,
			BlockFor:    cfg.DefaultBlock,
		},
	}
}

// Check applies one attempt for (actor, action). A nil error means allowed;
// a *RateLimitedError means denied with retry details.
func (g *Gate) Check(ctx context.Context, actorID uuid.UUID, action ratelimit.Action, origin string) error {
	now := g.clock.Now()
	key := ratelimit.Key(actorID.String(), action)
	policy := g.policies.For(action)

	window, err := g.store.Find(ctx, key)
	if err != nil {
		slog.Warn("rate limit store unreachable, failing open",
			"key", key, "error", err.Error())
		g.audit(ctx, actorID, action, origin, now)
		return nil
	}

	decision, next := ratelimit.Decide(window, key, policy, now)

	if err := g.store.Save(ctx, next); err != nil {
		slog.Warn("rate limit window save failed, failing open",
			"key", key, "error", err.Error())
		g.audit(ctx, actorID, action, origin, now)
		return nil
	}

	g.audit(ctx, actorID, action, origin, now)

	if !decision.Allowed {
		return &RateLimitedError{Decision: decision}
	}
	return nil
}

// CollectExpired garbage-collects windows whose block and window have long
// elapsed; invoked by the background sweep.
func (g *Gate) CollectExpired(ctx context.Context, retention time.Duration) {
	cutoff := g.clock.Now().Add(-retention)
	n, err := g.store.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		slog.Warn("rate limit window gc failed", "error", err.Error())
		return
	}
	if n > 0 {
		slog.Debug("rate limit windows collected", "count", n)
	}
}

func (g *Gate) audit(ctx context.Context, actorID uuid.UUID, action ratelimit.Action, origin string, now time.Time) {
	attempt := ratelimit.Attempt{ActorID: actorID, Action: action, Origin: origin, At: now}
	if err := g.store.RecordAttempt(ctx, attempt); err != nil {
		slog.Debug("rate limit attempt audit skipped", "error", err.Error())
	}
}
