package commands

import (
	"context"
	"errors"

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

// EnrollmentResult reports the outcome of an admission decision.
type EnrollmentResult struct {
	EnrollmentID uuid.UUID
	Status       enrollment.Status
	// Position is set when the outcome is a waitlist placement.
	Position int
}

type EnrollmentCommands interface {
	SubmitRequest(ctx context.Context, actorID, sectionID uuid.UUID, justification *string, origin string) (*EnrollmentResult, error)
	Approve(ctx context.Context, requestID, reviewerID uuid.UUID) (*EnrollmentResult, error)
	Deny(ctx context.Context, requestID, reviewerID uuid.UUID, reason string) error
	Withdraw(ctx context.Context, actorID, sectionID uuid.UUID, reason *string, origin string) error
}

type enrollmentCommandsImpl struct {
	uow   shared.UnitOfWork
	gate  *Gate
	clock clock.Clock
	cfg   config.WaitlistConfig
}

func NewEnrollmentCommands(
	uow shared.UnitOfWork,
	gate *Gate,
	clk clock.Clock,
	cfg config.WaitlistConfig,
) EnrollmentCommands {
	return &enrollmentCommandsImpl{
		uow:   uow,
		gate:  gate,
		clock: clk,
		cfg:   cfg,
	}
}

// mapRepoErr translates repository errors escaping a transaction into the
// shared taxonomy. Capacity-affecting operations fail closed on outages.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrNotFound)
	case infra.IsKind(err, infra.KindUnavailable):
		return errs.Mark(err, errs.ErrStorageUnavailable)
	default:
		return err
	}
}

func mapTransitionErr(err error) error {
	if errors.Is(err, enrollment.ErrInvalidTransition) {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	return err
}

func (c *enrollmentCommandsImpl) SubmitRequest(
	ctx context.Context,
	actorID, sectionID uuid.UUID,
	justification *string,
	origin string,
) (*EnrollmentResult, error) {
	if err := c.gate.Check(ctx, actorID, ratelimit.ActionSubmitRequest, origin); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	var result *EnrollmentResult

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

		rec := enrollment.NewEnrollment(actorID, sectionID, justification, now)

		if sec.RequiresApproval() {
			if err := tx.Enrollments().Create(ctx, rec); err != nil {
				return err
			}
			if err := recordOpenConflicts(ctx, tx, actorID, sectionID, rec.ID(), violations, now); err != nil {
				return err
			}
			result = &EnrollmentResult{EnrollmentID: rec.ID(), Status: rec.Status()}
			return emitEvent(ctx, tx.Outbox(), TopicApprovalRequested, now, map[string]any{
				"enrollment_id": rec.ID(),
				"actor_id":      actorID,
				"section_id":    sectionID,
			})
		}

		decided, err := c.decideSeat(ctx, tx, sec, rec)
		if err != nil {
			return err
		}
		if err := recordOpenConflicts(ctx, tx, actorID, sectionID, rec.ID(), violations, now); err != nil {
			return err
		}
		result = decided
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return result, nil
}

// decideSeat applies the enroll-or-queue decision for a record that has
// passed eligibility. The section row is already locked.
func (c *enrollmentCommandsImpl) decideSeat(
	ctx context.Context,
	tx shared.Tx,
	sec *section.Section,
	rec *enrollment.Enrollment,
) (*EnrollmentResult, error) {
	now := c.clock.Now()

	if err := sec.Reserve(); err == nil {
		if err := tx.Sections().Save(ctx, sec); err != nil {
			return nil, err
		}
		if err := rec.Enroll(now); err != nil {
			return nil, mapTransitionErr(err)
		}
		if err := upsertEnrollment(ctx, tx, rec); err != nil {
			return nil, err
		}
		if err := emitEvent(ctx, tx.Outbox(), TopicEnrolled, now, map[string]any{
			"enrollment_id": rec.ID(),
			"actor_id":      rec.ActorID(),
			"section_id":    sec.ID(),
		}); err != nil {
			return nil, err
		}
		return &EnrollmentResult{EnrollmentID: rec.ID(), Status: rec.Status()}, nil
	}

	queued, err := tx.Waitlist().CountActive(ctx, sec.ID())
	if err != nil {
		return nil, err
	}
	if !sec.WaitlistOpen(queued) {
		return nil, errs.Mark(errs.New("section and waitlist are full"), errs.ErrAtCapacity)
	}

	if err := rec.Waitlist(now); err != nil {
		return nil, mapTransitionErr(err)
	}
	if err := upsertEnrollment(ctx, tx, rec); err != nil {
		return nil, err
	}
	entry, err := waitlist.NewEntry(sec.ID(), rec.ActorID(), 0, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Waitlist().Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := emitEvent(ctx, tx.Outbox(), TopicWaitlisted, now, map[string]any{
		"enrollment_id": rec.ID(),
		"entry_id":      entry.ID(),
		"actor_id":      rec.ActorID(),
		"section_id":    sec.ID(),
	}); err != nil {
		return nil, err
	}
	return &EnrollmentResult{EnrollmentID: rec.ID(), Status: rec.Status(), Position: queued + 1}, nil
}

// upsertEnrollment persists a record that may or may not exist yet; Approve
// reuses decideSeat on an already-stored record.
func upsertEnrollment(ctx context.Context, tx shared.Tx, rec *enrollment.Enrollment) error {
	err := tx.Enrollments().Update(ctx, rec)
	if infra.IsKind(err, infra.KindNotFound) {
		return tx.Enrollments().Create(ctx, rec)
	}
	return err
}

func (c *enrollmentCommandsImpl) Approve(ctx context.Context, requestID, reviewerID uuid.UUID) (*EnrollmentResult, error) {
	if err := c.gate.Check(ctx, reviewerID, ratelimit.ActionReviewRequest, ""); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	var result *EnrollmentResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Enrollments().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if rec.Status() != enrollment.StatusRequested {
			return errs.Mark(errs.New("request already decided"), errs.ErrInvalidTransition)
		}
		sec, err := tx.Sections().FindByIDForUpdate(ctx, rec.SectionID())
		if err != nil {
			return err
		}

		rec.Approve(reviewerID, now)
		decided, err := c.decideSeat(ctx, tx, sec, rec)
		if err != nil {
			return err
		}
		result = decided
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return result, nil
}

func (c *enrollmentCommandsImpl) Deny(ctx context.Context, requestID, reviewerID uuid.UUID, reason string) error {
	if err := c.gate.Check(ctx, reviewerID, ratelimit.ActionReviewRequest, ""); err != nil {
		return err
	}

	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Enrollments().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := rec.Deny(reviewerID, reason, now); err != nil {
			return mapTransitionErr(err)
		}
		if err := tx.Enrollments().Update(ctx, rec); err != nil {
			return err
		}
		return emitEvent(ctx, tx.Outbox(), TopicRequestDenied, now, map[string]any{
			"enrollment_id": rec.ID(),
			"actor_id":      rec.ActorID(),
			"section_id":    rec.SectionID(),
			"reason":        reason,
		})
	})
	return mapRepoErr(err)
}

func (c *enrollmentCommandsImpl) Withdraw(
	ctx context.Context,
	actorID, sectionID uuid.UUID,
	reason *string,
	origin string,
) error {
	if err := c.gate.Check(ctx, actorID, ratelimit.ActionWithdraw, origin); err != nil {
		return err
	}

	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Enrollments().FindActiveByActorAndSection(ctx, actorID, sectionID)
		if err != nil {
			return err
		}
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}

		heldSeat := rec.Status() == enrollment.StatusEnrolled
		wasQueued := rec.Status() == enrollment.StatusWaitlisted

		if err := rec.Withdraw(now); err != nil {
			return mapTransitionErr(err)
		}
		if err := tx.Enrollments().Update(ctx, rec); err != nil {
			return err
		}

		promote := false
		switch {
		case heldSeat:
			if err := sec.Release(); err != nil {
				return err
			}
			if err := tx.Sections().Save(ctx, sec); err != nil {
				return err
			}
			promote = true

		case wasQueued:
			entry, err := tx.Waitlist().FindActiveByActorAndSection(ctx, actorID, sectionID)
			if err != nil {
				return err
			}
			// A pending offer dies with the entry; the freed offer slot goes
			// to the next candidate below.
			promote = entry.OfferState() == waitlist.OfferExtended
			if err := entry.Remove(waitlist.RemovalWithdrawn, now); err != nil {
				return err
			}
			if err := tx.Waitlist().Update(ctx, entry); err != nil {
				return err
			}
		}

		if err := emitEvent(ctx, tx.Outbox(), TopicWithdrawn, now, map[string]any{
			"enrollment_id": rec.ID(),
			"actor_id":      actorID,
			"section_id":    sectionID,
			"reason":        reason,
		}); err != nil {
			return err
		}

		if promote {
			// Promotion happens synchronously in the same transaction as the
			// release, so a freed seat is never visible without an offer in
			// flight.
			_, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
			return err
		}
		return nil
	})
	return mapRepoErr(err)
}
