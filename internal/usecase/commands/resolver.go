package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// Restriction rule kinds evaluated by the resolver. Other kinds are ignored
// rather than failed, so new rule types can be introduced behind the data
// model before the evaluator learns them.
const (
	restrictionKindCohort         = "cohort"
	restrictionKindMaxEnrollments = "max-active-enrollments"
)

// checkEligibility runs the synchronous conflict checks for admitting actor
// into sec. It must run inside the same transaction as the seat or queue
// mutation that follows. Blocking violations stop the operation; the caller
// records non-blocking ones as open conflicts.
func checkEligibility(
	ctx context.Context,
	tx shared.Tx,
	actor *shared.ActorSnapshot,
	sec *section.Section,
) ([]conflict.Violation, error) {
	var violations []conflict.Violation

	existing, err := tx.Enrollments().FindActiveByActorAndSection(ctx, actor.ID, sec.ID())
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		waitlisted := existing.Status() == enrollment.StatusWaitlisted
		detail := "actor already enrolled in section"
		if waitlisted {
			detail = "actor already waitlisted for section"
		}
		violations = append(violations, conflict.Violation{
			Kind:                conflict.KindDuplicateEnrollment,
			Blocking:            true,
			Detail:              detail,
			DuplicateWaitlisted: waitlisted,
			RelatedID:           existing.ID(),
		})
		// Duplicate is non-overridable; no point evaluating further rules.
		return violations, nil
	}

	violations = append(violations, checkPrerequisites(actor, sec)...)

	restrictionViolations, err := checkRestrictions(ctx, tx, actor, sec, 0)
	if err != nil {
		return nil, err
	}
	violations = append(violations, restrictionViolations...)

	overlapViolations, err := checkScheduleOverlap(ctx, tx, actor.ID, sec)
	if err != nil {
		return nil, err
	}
	violations = append(violations, overlapViolations...)

	return violations, nil
}

// promotionViolations re-checks a queued candidate right before an offer is
// extended. The duplicate check is skipped, the queued record IS the pair,
// and quota rules are evaluated with one slot of slack because that record
// already counts toward the actor's active total.
func promotionViolations(
	ctx context.Context,
	tx shared.Tx,
	actor *shared.ActorSnapshot,
	sec *section.Section,
) ([]conflict.Violation, error) {
	violations := checkPrerequisites(actor, sec)

	restrictionViolations, err := checkRestrictions(ctx, tx, actor, sec, 1)
	if err != nil {
		return nil, err
	}
	return append(violations, restrictionViolations...), nil
}

func checkPrerequisites(actor *shared.ActorSnapshot, sec *section.Section) []conflict.Violation {
	var violations []conflict.Violation
	for _, p := range sec.Prerequisites() {
		grade, completed := actor.Completions[p.RequiredSectionID]
		if completed && p.Satisfied(grade) {
			continue
		}
		violations = append(violations, conflict.Violation{
			Kind:        conflict.KindPrerequisiteViolation,
			Overridable: !p.Strict,
			Blocking:    p.Strict,
			Detail:      prerequisiteDetail(p, completed),
			RelatedID:   p.RequiredSectionID,
		})
	}
	return violations
}

func prerequisiteDetail(p section.Prerequisite, completed bool) string {
	if !completed {
		return fmt.Sprintf("required section %s not completed", p.RequiredSectionID)
	}
	return fmt.Sprintf("grade below required minimum for section %s", p.RequiredSectionID)
}

func checkRestrictions(
	ctx context.Context,
	tx shared.Tx,
	actor *shared.ActorSnapshot,
	sec *section.Section,
	quotaSlack int,
) ([]conflict.Violation, error) {
	var violations []conflict.Violation
	for _, r := range sec.Restrictions() {
		violated, detail, err := evaluateRestriction(ctx, tx, actor, r, quotaSlack)
		if err != nil {
			return nil, err
		}
		if !violated {
			continue
		}
		violations = append(violations, conflict.Violation{
			Kind:        conflict.KindRestrictionViolation,
			Overridable: r.Overridable,
			Blocking:    !r.Overridable,
			Detail:      detail,
			RelatedID:   r.ID,
		})
	}
	return violations, nil
}

func evaluateRestriction(
	ctx context.Context,
	tx shared.Tx,
	actor *shared.ActorSnapshot,
	r section.Restriction,
	quotaSlack int,
) (bool, string, error) {
	switch r.Kind {
	case restrictionKindCohort:
		for _, cohort := range strings.Split(r.Rule, ",") {
			if strings.TrimSpace(cohort) == actor.Cohort {
				return false, "", nil
			}
		}
		return true, fmt.Sprintf("cohort %q not admitted by rule %q", actor.Cohort, r.Rule), nil

	case restrictionKindMaxEnrollments:
		limit, err := strconv.Atoi(strings.TrimSpace(r.Rule))
		if err != nil {
			return false, "", errs.Wrap(err, "malformed max-active-enrollments rule")
		}
		active, err := tx.Enrollments().ListActiveByActor(ctx, actor.ID)
		if err != nil {
			return false, "", err
		}
		if len(active) >= limit+quotaSlack {
			return true, fmt.Sprintf("actor holds %d active enrollments, quota is %d", len(active), limit), nil
		}
		return false, "", nil

	default:
		return false, "", nil
	}
}

// checkScheduleOverlap compares the target section's meetings against the
// actor's currently held sections. Overlaps are reported, never blocking.
func checkScheduleOverlap(
	ctx context.Context,
	tx shared.Tx,
	actorID uuid.UUID,
	sec *section.Section,
) ([]conflict.Violation, error) {
	active, err := tx.Enrollments().ListActiveByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var violations []conflict.Violation
	for _, e := range active {
		if e.SectionID() == sec.ID() {
			continue
		}
		held, err := tx.Sections().FindByID(ctx, e.SectionID())
		if err != nil {
			return nil, err
		}
		if sec.OverlapsSchedule(held) {
			violations = append(violations, conflict.Violation{
				Kind:        conflict.KindScheduleOverlap,
				Overridable: true,
				Blocking:    false,
				Detail:      fmt.Sprintf("meeting times overlap with section %q", held.Name()),
				RelatedID:   e.ID(),
			})
		}
	}
	return violations, nil
}

// blockingError maps the first blocking violation to the shared taxonomy.
// It returns nil when every violation is non-blocking.
func blockingError(violations []conflict.Violation) error {
	for _, v := range violations {
		if !v.Blocking {
			continue
		}
		switch v.Kind {
		case conflict.KindDuplicateEnrollment:
			if v.DuplicateWaitlisted {
				return errs.Mark(errs.New(v.Detail), errs.ErrAlreadyWaitlisted)
			}
			return errs.Mark(errs.New(v.Detail), errs.ErrAlreadyEnrolled)
		case conflict.KindPrerequisiteViolation:
			return errs.Mark(errs.New(v.Detail), errs.ErrPrerequisiteNotMet)
		case conflict.KindRestrictionViolation:
			return errs.Mark(errs.New(v.Detail), errs.ErrRestrictionViolated)
		default:
			return errs.New(v.Detail)
		}
	}
	return nil
}

// recordOpenConflicts persists the non-blocking violations as open conflict
// records keyed to the admission record that carried them.
func recordOpenConflicts(
	ctx context.Context,
	tx shared.Tx,
	actorID, sectionID, recordID uuid.UUID,
	violations []conflict.Violation,
	now time.Time,
) error {
	for _, v := range violations {
		if v.Blocking {
			continue
		}
		c := conflict.NewConflict(
			v.Kind, actorID, sectionID,
			recordID, v.RelatedID,
			v.Overridable, v.Detail, now,
		)
		if err := tx.Conflicts().Create(ctx, c); err != nil {
			return err
		}
		if err := emitEvent(ctx, tx.Outbox(), TopicConflictDetected, now, map[string]any{
			"conflict_id": c.ID(),
			"kind":        string(c.Kind()),
			"actor_id":    actorID,
			"section_id":  sectionID,
		}); err != nil {
			return err
		}
	}
	return nil
}
