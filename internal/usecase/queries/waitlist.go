package queries

import (
	"context"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	// Position reports where the actor stands in a section's queue together
	// with a promotion probability estimated from the queue's history.
	Position(ctx context.Context, actorID, sectionID uuid.UUID) (*WaitlistPositionView, error)
}

type WaitlistViewRepo interface {
	// FindPosition derives the 1-based position from the ordering
	// (priority desc, enqueued_at asc, id asc); Probability is left zero.
	FindPosition(ctx context.Context, actorID, sectionID uuid.UUID) (*WaitlistPositionView, error)
	History(ctx context.Context, sectionID uuid.UUID) (*WaitlistHistory, error)
}

type waitlistQueriesImpl struct {
	repo WaitlistViewRepo
}

func NewWaitlistQueries(repo WaitlistViewRepo) WaitlistQueries {
	return &waitlistQueriesImpl{repo: repo}
}

func (q *waitlistQueriesImpl) Position(ctx context.Context, actorID, sectionID uuid.UUID) (*WaitlistPositionView, error) {
	view, err := q.repo.FindPosition(ctx, actorID, sectionID)
	if err != nil {
		return nil, err
	}
	history, err := q.repo.History(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	view.Probability = promotionProbability(history, view.Position)
	return view, nil
}

// promotionProbability estimates the chance of promotion as the section's
// historical promotion rate attenuated by queue position. With no history
// the rate defaults to an even chance so early estimates are not pinned to
// zero.
func promotionProbability(h *WaitlistHistory, position int) float64 {
	if position < 1 {
		return 0
	}
	rate := 0.5
	if h != nil && h.Joined > 0 {
		rate = float64(h.Promoted) / float64(h.Joined)
	}
	p := rate / float64(position)
	if p > 0.99 {
		p = 0.99
	}
	if p < 0.01 {
		p = 0.01
	}
	return p
}
