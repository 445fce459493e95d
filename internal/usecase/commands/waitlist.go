package commands

import (
	"context"
	"errors"
	"time"

	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/ratelimit"
	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/domain/waitlist"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// JoinResult reports a direct waitlist placement.
type JoinResult struct {
	EnrollmentID uuid.UUID
	EntryID      uuid.UUID
	Position     int
}

// SweepReport summarizes one pass over a section's queue.
type SweepReport struct {
	SectionID uuid.UUID
	Expired   int
	Offered   int
}

type WaitlistCommands interface {
	Join(ctx context.Context, actorID, sectionID uuid.UUID, priority int, origin string) (*JoinResult, error)
	Respond(ctx context.Context, actorID, sectionID uuid.UUID, accept bool, origin string) (*EnrollmentResult, error)
	// ProcessSection expires lapsed offers and extends the next one. The
	// sweeper calls it periodically; operators can trigger it directly.
	ProcessSection(ctx context.Context, sectionID uuid.UUID) (*SweepReport, error)
}

type waitlistCommandsImpl struct {
	uow   shared.UnitOfWork
	gate  *Gate
	clock clock.Clock
	cfg   config.WaitlistConfig
}

func NewWaitlistCommands(
	uow shared.UnitOfWork,
	gate *Gate,
	clk clock.Clock,
	cfg config.WaitlistConfig,
) WaitlistCommands {
	return &waitlistCommandsImpl{
		uow:   uow,
		gate:  gate,
		clock: clk,
		cfg:   cfg,
	}
}

func mapOfferErr(err error) error {
	if errors.Is(err, waitlist.ErrNotOffered) || errors.Is(err, waitlist.ErrOfferLapsed) {
		return errs.Mark(err, errs.ErrNoActiveOffer)
	}
	return err
}

func (c *waitlistCommandsImpl) Join(
	ctx context.Context,
	actorID, sectionID uuid.UUID,
	priority int,
	origin string,
) (*JoinResult, error) {
	if err := c.gate.Check(ctx, actorID, ratelimit.ActionJoinWaitlist, origin); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	var result *JoinResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		actor, err := tx.Actors().Snapshot(ctx, actorID)
		if err != nil {
			return err
		}
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}

		violations, err := checkEligibility(ctx, tx, actor, sec)
		if err != nil {
			return err
		}
		if blockErr := blockingError(violations); blockErr != nil {
			return blockErr
		}

		queued, err := tx.Waitlist().CountActive(ctx, sectionID)
		if err != nil {
			return err
		}
		if !sec.WaitlistOpen(queued) {
			return errs.Mark(errs.New("waitlist is full"), errs.ErrWaitlistAtCapacity)
		}

		rec := enrollment.NewEnrollment(actorID, sectionID, nil, now)
		if err := rec.Waitlist(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := tx.Enrollments().Create(ctx, rec); err != nil {
			return err
		}

		entry, err := waitlist.NewEntry(sectionID, actorID, priority, now)
		if err != nil {
			return err
		}
		if err := tx.Waitlist().Create(ctx, entry); err != nil {
			return err
		}
		if err := recordOpenConflicts(ctx, tx, actorID, sectionID, rec.ID(), violations, now); err != nil {
			return err
		}

		position, err := entryPosition(ctx, tx, sectionID, entry.ID())
		if err != nil {
			return err
		}
		result = &JoinResult{EnrollmentID: rec.ID(), EntryID: entry.ID(), Position: position}

		if err := emitEvent(ctx, tx.Outbox(), TopicWaitlisted, now, map[string]any{
			"enrollment_id": rec.ID(),
			"entry_id":      entry.ID(),
			"actor_id":      actorID,
			"section_id":    sectionID,
			"position":      position,
		}); err != nil {
			return err
		}

		// A seat may already be free with nobody holding an offer, for
		// example when the queue was empty at the time it opened up.
		if sec.HasOpenSeat() {
			_, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return result, nil
}

// entryPosition derives the 1-based queue position of an entry from the
// ordered active listing. Positions are never stored.
func entryPosition(ctx context.Context, tx shared.Tx, sectionID, entryID uuid.UUID) (int, error) {
	entries, err := tx.Waitlist().ListActiveBySection(ctx, sectionID)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if e.ID() == entryID {
			return i + 1, nil
		}
	}
	return 0, errs.Mark(errs.New("entry missing from active queue"), errs.ErrNotFound)
}

func (c *waitlistCommandsImpl) Respond(
	ctx context.Context,
	actorID, sectionID uuid.UUID,
	accept bool,
	origin string,
) (*EnrollmentResult, error) {
	if err := c.gate.Check(ctx, actorID, ratelimit.ActionRespondOffer, origin); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	var result *EnrollmentResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}
		entry, err := tx.Waitlist().FindActiveByActorAndSection(ctx, actorID, sectionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrNoActiveOffer)
			}
			return err
		}

		if accept {
			decided, err := c.acceptOffer(ctx, tx, sec, entry, now)
			if err != nil {
				return err
			}
			result = decided
			return nil
		}
		return c.declineOffer(ctx, tx, sec, entry, now)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return result, nil
}

func (c *waitlistCommandsImpl) acceptOffer(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	entry *waitlist.Entry,
	now time.Time,
) (*EnrollmentResult, error) {
	if err := entry.Accept(now); err != nil {
		return nil, mapOfferErr(err)
	}
	// The offer represented a real seat held under the section lock, so the
	// reservation must succeed; a failure here means the ledger is corrupt.
	if err := sec.Reserve(); err != nil {
		return nil, err
	}
	if err := tx.Sections().Save(ctx, sec); err != nil {
		return nil, err
	}
	if err := entry.Remove(waitlist.RemovalPromoted, now); err != nil {
		return nil, err
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return nil, err
	}

	rec, err := tx.Enrollments().FindActiveByActorAndSection(ctx, entry.ActorID(), sec.ID())
	if err != nil {
		return nil, err
	}
	if err := rec.Enroll(now); err != nil {
		return nil, mapTransitionErr(err)
	}
	if err := tx.Enrollments().Update(ctx, rec); err != nil {
		return nil, err
	}

	if err := emitEvent(ctx, tx.Outbox(), TopicPromoted, now, map[string]any{
		"enrollment_id": rec.ID(),
		"entry_id":      entry.ID(),
		"actor_id":      entry.ActorID(),
		"section_id":    sec.ID(),
	}); err != nil {
		return nil, err
	}
	return &EnrollmentResult{EnrollmentID: rec.ID(), Status: rec.Status()}, nil
}

func (c *waitlistCommandsImpl) declineOffer(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	entry *waitlist.Entry,
	now time.Time,
) error {
	if err := entry.Decline(now); err != nil {
		return mapOfferErr(err)
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return err
	}
	if err := emitEvent(ctx, tx.Outbox(), TopicOfferDeclined, now, map[string]any{
		"entry_id":   entry.ID(),
		"actor_id":   entry.ActorID(),
		"section_id": sec.ID(),
	}); err != nil {
		return err
	}
	// The declined seat is still free; pass it down the queue.
	_, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
	return err
}

func (c *waitlistCommandsImpl) ProcessSection(ctx context.Context, sectionID uuid.UUID) (*SweepReport, error) {
	now := c.clock.Now()
	report := &SweepReport{SectionID: sectionID}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}

		offered, err := tx.Waitlist().FindOffered(ctx, sectionID)
		switch {
		case err == nil:
			if !offered.OfferLapsed(now) {
				// Someone holds a live offer; nothing to sweep.
				return nil
			}
			if err := c.expireOffer(ctx, tx, sec, offered, now); err != nil {
				return err
			}
			report.Expired++
		case infra.IsKind(err, infra.KindNotFound):
			// No offer in flight.
		default:
			return err
		}

		if !sec.HasOpenSeat() {
			return nil
		}
		extended, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
		if err != nil {
			return err
		}
		if extended {
			report.Offered++
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return report, nil
}

// expireOffer lapses a timed-out offer. The candidate leaves the queue and
// their admission record closes; rejoining starts a fresh request.
func (c *waitlistCommandsImpl) expireOffer(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	entry *waitlist.Entry,
	now time.Time,
) error {
	if err := entry.Expire(now); err != nil {
		return err
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return err
	}

	rec, err := tx.Enrollments().FindActiveByActorAndSection(ctx, entry.ActorID(), sec.ID())
	if err == nil {
		if err := rec.Withdraw(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := tx.Enrollments().Update(ctx, rec); err != nil {
			return err
		}
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return err
	}

	return emitEvent(ctx, tx.Outbox(), TopicOfferExpired, now, map[string]any{
		"entry_id":   entry.ID(),
		"actor_id":   entry.ActorID(),
		"section_id": sec.ID(),
	})
}

// promoteNext extends at most one offer for a free seat. At most one offer
// is outstanding per section at any time; candidates whose eligibility has
// gone stale since they queued are dropped rather than offered a seat they
// cannot take.
func promoteNext(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	offerTTL time.Duration,
	now time.Time,
) (bool, error) {
	if !sec.HasOpenSeat() {
		return false, nil
	}
	_, err := tx.Waitlist().FindOffered(ctx, sec.ID())
	if err == nil {
		return false, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return false, err
	}

	entries, err := tx.Waitlist().ListActiveBySection(ctx, sec.ID())
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		ok, err := candidateStillEligible(ctx, tx, entry, sec)
		if err != nil {
			return false, err
		}
		if !ok {
			if err := dropStaleCandidate(ctx, tx, sec, entry, now); err != nil {
				return false, err
			}
			continue
		}

		deadline := now.Add(offerTTL)
		if err := entry.Offer(deadline, now); err != nil {
			return false, err
		}
		if err := tx.Waitlist().Update(ctx, entry); err != nil {
			return false, err
		}
		if err := emitEvent(ctx, tx.Outbox(), TopicOfferExtended, now, map[string]any{
			"entry_id":   entry.ID(),
			"actor_id":   entry.ActorID(),
			"section_id": sec.ID(),
			"deadline":   deadline,
		}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// candidateStillEligible re-runs the blocking eligibility checks for a
// queued candidate at promotion time.
func candidateStillEligible(ctx context.Context, tx shared.Tx, entry *waitlist.Entry, sec *section.Section) (bool, error) {
	actor, err := tx.Actors().Snapshot(ctx, entry.ActorID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	violations, err := promotionViolations(ctx, tx, actor, sec)
	if err != nil {
		return false, err
	}
	return blockingError(violations) == nil, nil
}

func dropStaleCandidate(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	entry *waitlist.Entry,
	now time.Time,
) error {
	if err := entry.Remove(waitlist.RemovalResolved, now); err != nil {
		return err
	}
	if err := tx.Waitlist().Update(ctx, entry); err != nil {
		return err
	}
	rec, err := tx.Enrollments().FindActiveByActorAndSection(ctx, entry.ActorID(), sec.ID())
	if err == nil {
		if err := rec.Withdraw(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := tx.Enrollments().Update(ctx, rec); err != nil {
			return err
		}
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return err
	}
	return emitEvent(ctx, tx.Outbox(), TopicWithdrawn, now, map[string]any{
		"entry_id":   entry.ID(),
		"actor_id":   entry.ActorID(),
		"section_id": sec.ID(),
		"reason":     "eligibility lost while queued",
	})
}
