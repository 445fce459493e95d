package commands

import (
	"context"
	"log/slog"
	"time"

	"enrollment-core/internal/domain/conflict"
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

// ScanReport summarizes one batch detection pass over a section.
type ScanReport struct {
	SectionID uuid.UUID
	Scanned   int
	Found     int
}

type ConflictCommands interface {
	// Detect runs the batch scan over a section: every active record is
	// re-checked against the current rules, and findings not already open
	// are recorded. The synchronous per-request checks remain the primary
	// line; the scan catches drift after rule or data changes. A nil
	// sectionID scans every section, each in its own transaction, and
	// returns the aggregated counts.
	Detect(ctx context.Context, sectionID uuid.UUID) (*ScanReport, error)
	// Investigate parks an open conflict under review so other reviewers
	// see it is being worked on. The conflict stays open and can still be
	// resolved with any strategy.
	Investigate(ctx context.Context, conflictID, reviewerID uuid.UUID, origin string) error
	Resolve(ctx context.Context, conflictID uuid.UUID, strategy conflict.Strategy, resolverID uuid.UUID, origin string) error
}

type conflictCommandsImpl struct {
	uow   shared.UnitOfWork
	gate  *Gate
	clock clock.Clock
	cfg   config.WaitlistConfig
}

func NewConflictCommands(
	uow shared.UnitOfWork,
	gate *Gate,
	clk clock.Clock,
	cfg config.WaitlistConfig,
) ConflictCommands {
	return &conflictCommandsImpl{
		uow:   uow,
		gate:  gate,
		clock: clk,
		cfg:   cfg,
	}
}

func (c *conflictCommandsImpl) Detect(ctx context.Context, sectionID uuid.UUID) (*ScanReport, error) {
	if sectionID == uuid.Nil {
		return c.detectAll(ctx)
	}
	return c.detectSection(ctx, sectionID)
}

// detectAll iterates every section with the same failure isolation as the
// sweep: one broken section must not abort the scan for the rest.
func (c *conflictCommandsImpl) detectAll(ctx context.Context) (*ScanReport, error) {
	var ids []uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Sections().ListIDs(ctx)
		return err
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	total := &ScanReport{}
	for _, id := range ids {
		report, err := c.detectSection(ctx, id)
		if err != nil {
			slog.Warn("conflict scan failed for section", "section_id", id, "error", err.Error())
			continue
		}
		total.Scanned += report.Scanned
		total.Found += report.Found
	}
	return total, nil
}

func (c *conflictCommandsImpl) detectSection(ctx context.Context, sectionID uuid.UUID) (*ScanReport, error) {
	now := c.clock.Now()
	report := &ScanReport{SectionID: sectionID}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}
		open, err := tx.Conflicts().ListOpenBySection(ctx, sectionID)
		if err != nil {
			return err
		}
		records, err := tx.Enrollments().ListActiveBySection(ctx, sectionID)
		if err != nil {
			return err
		}
		report.Scanned = len(records)

		if invErr := sec.CheckInvariant(); invErr != nil {
			found, err := recordScanFinding(ctx, tx, open, conflict.Violation{
				Kind:      conflict.KindCapacityOverbook,
				Blocking:  true,
				Detail:    invErr.Error(),
				RelatedID: sectionID,
			}, uuid.Nil, sectionID, sectionID, now)
			if err != nil {
				return err
			}
			if found {
				report.Found++
			}
		}

		for _, rec := range records {
			actor, err := tx.Actors().Snapshot(ctx, rec.ActorID())
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					continue
				}
				return err
			}
			violations, err := scanViolations(ctx, tx, actor, sec, rec)
			if err != nil {
				return err
			}
			for _, v := range violations {
				found, err := recordScanFinding(ctx, tx, open, v, rec.ActorID(), sectionID, rec.ID(), now)
				if err != nil {
					return err
				}
				if found {
					report.Found++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return report, nil
}

// scanViolations re-evaluates a stored record the way promotion does: the
// record itself is the pair, so the duplicate check is skipped, but schedule
// overlaps against the actor's other sections are still reported.
func scanViolations(
	ctx context.Context,
	tx shared.Tx,
	actor *shared.ActorSnapshot,
	sec *section.Section,
	rec *enrollment.Enrollment,
) ([]conflict.Violation, error) {
	violations, err := promotionViolations(ctx, tx, actor, sec)
	if err != nil {
		return nil, err
	}
	overlaps, err := checkScheduleOverlap(ctx, tx, actor.ID, sec)
	if err != nil {
		return nil, err
	}
	for _, v := range overlaps {
		// Skip the self pairing the per-actor listing produces.
		if v.RelatedID == rec.ID() {
			continue
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// recordScanFinding persists one scan finding unless an open conflict with
// the same identity already exists. Returns whether a record was created.
func recordScanFinding(
	ctx context.Context,
	tx shared.Tx,
	open []*conflict.Conflict,
	v conflict.Violation,
	actorID, sectionID, recordID uuid.UUID,
	now time.Time,
) (bool, error) {
	for _, existing := range open {
		if existing.SameFinding(v.Kind, recordID, v.RelatedID) {
			return false, nil
		}
	}
	if v.Kind == conflict.KindScheduleOverlap {
		// An overlap spans two sections and is found from both sides, so
		// the section-scoped listing alone cannot see the mirror record.
		actorOpen, err := tx.Conflicts().ListOpenByActor(ctx, actorID)
		if err != nil {
			return false, err
		}
		for _, existing := range actorOpen {
			if existing.SameFinding(v.Kind, recordID, v.RelatedID) {
				return false, nil
			}
		}
	}
	cn := conflict.NewConflict(v.Kind, actorID, sectionID, recordID, v.RelatedID, v.Overridable, v.Detail, now)
	if err := tx.Conflicts().Create(ctx, cn); err != nil {
		return false, err
	}
	if err := emitEvent(ctx, tx.Outbox(), TopicConflictDetected, now, map[string]any{
		"conflict_id": cn.ID(),
		"kind":        string(cn.Kind()),
		"actor_id":    actorID,
		"section_id":  sectionID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (c *conflictCommandsImpl) Investigate(
	ctx context.Context,
	conflictID, reviewerID uuid.UUID,
	origin string,
) error {
	if err := c.gate.Check(ctx, reviewerID, ratelimit.ActionResolveConflict, origin); err != nil {
		return err
	}

	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cn, err := tx.Conflicts().FindByID(ctx, conflictID)
		if err != nil {
			return err
		}
		if err := cn.Investigate(now); err != nil {
			return mapResolveErr(err)
		}
		if err := tx.Conflicts().Update(ctx, cn); err != nil {
			return err
		}
		return emitEvent(ctx, tx.Outbox(), TopicConflictInvestigating, now, map[string]any{
			"conflict_id": cn.ID(),
			"reviewer_id": reviewerID,
			"section_id":  cn.SectionID(),
		})
	})
	return mapRepoErr(err)
}

func (c *conflictCommandsImpl) Resolve(
	ctx context.Context,
	conflictID uuid.UUID,
	strategy conflict.Strategy,
	resolverID uuid.UUID,
	origin string,
) error {
	if err := c.gate.Check(ctx, resolverID, ratelimit.ActionResolveConflict, origin); err != nil {
		return err
	}

	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cn, err := tx.Conflicts().FindByID(ctx, conflictID)
		if err != nil {
			return err
		}
		if err := cn.Resolve(strategy, resolverID, now); err != nil {
			return mapResolveErr(err)
		}

		switch strategy {
		case conflict.StrategyAutoDropLowerPriority:
			// The first record is the one whose admission raised the
			// conflict; it yields to the pre-existing record.
			if err := c.dropRecord(ctx, tx, cn, enrollment.StatusWithdrawn, now); err != nil {
				return err
			}
		case conflict.StrategyDenyAndNotify:
			if err := c.dropRecord(ctx, tx, cn, enrollment.StatusDenied, now); err != nil {
				return err
			}
		case conflict.StrategyManualOverride:
			// Records stand as they are; the resolution itself is the action.
		}

		if err := tx.Conflicts().Update(ctx, cn); err != nil {
			return err
		}
		return emitEvent(ctx, tx.Outbox(), TopicConflictResolved, now, map[string]any{
			"conflict_id": cn.ID(),
			"strategy":    string(strategy),
			"resolver_id": resolverID,
			"section_id":  cn.SectionID(),
		})
	})
	return mapRepoErr(err)
}

func mapResolveErr(err error) error {
	switch err {
	case conflict.ErrAlreadyResolved, conflict.ErrInvalidStrategy, conflict.ErrNotOverridable:
		return errs.Mark(err, errs.ErrInvalidTransition)
	default:
		return err
	}
}

// dropRecord removes the conflict's offending record from the section,
// releasing whatever it held. A freed seat cascades to the queue.
func (c *conflictCommandsImpl) dropRecord(
	ctx context.Context,
	tx shared.Tx,
	cn *conflict.Conflict,
	outcome enrollment.Status,
	now time.Time,
) error {
	rec, err := tx.Enrollments().FindByID(ctx, cn.FirstRecordID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	if !rec.IsActive() {
		return nil
	}
	sec, err := tx.Sections().FindByIDForUpdate(ctx, rec.SectionID())
	if err != nil {
		return err
	}

	heldSeat := rec.Status() == enrollment.StatusEnrolled
	wasQueued := rec.Status() == enrollment.StatusWaitlisted

	// Resolve has already stamped the resolver on the conflict.
	resolvedBy := uuid.Nil
	if cn.ResolvedBy() != nil {
		resolvedBy = *cn.ResolvedBy()
	}

	if outcome == enrollment.StatusDenied && rec.Status() == enrollment.StatusRequested {
		if err := rec.Deny(resolvedBy, cn.Detail(), now); err != nil {
			return mapTransitionErr(err)
		}
	} else if err := rec.Withdraw(now); err != nil {
		return mapTransitionErr(err)
	}
	if err := tx.Enrollments().Update(ctx, rec); err != nil {
		return err
	}

	if wasQueued {
		entry, err := tx.Waitlist().FindActiveByActorAndSection(ctx, rec.ActorID(), sec.ID())
		if err == nil {
			if err := entry.Remove(waitlist.RemovalResolved, now); err != nil {
				return err
			}
			if err := tx.Waitlist().Update(ctx, entry); err != nil {
				return err
			}
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
	}

	topic := TopicWithdrawn
	if outcome == enrollment.StatusDenied {
		topic = TopicRequestDenied
	}
	if err := emitEvent(ctx, tx.Outbox(), topic, now, map[string]any{
		"enrollment_id": rec.ID(),
		"actor_id":      rec.ActorID(),
		"section_id":    sec.ID(),
		"reason":        cn.Detail(),
	}); err != nil {
		return err
	}

	if heldSeat {
		if err := sec.Release(); err != nil {
			return err
		}
		if err := tx.Sections().Save(ctx, sec); err != nil {
			return err
		}
		_, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
		return err
	}
	return nil
}
