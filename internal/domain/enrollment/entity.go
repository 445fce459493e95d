package enrollment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid enrollment transition")

// Enrollment is the (actor, section) admission record. The pair is unique
// among non-terminal records; transitions run exclusively through the
// methods below so every state change is stamped.
type Enrollment struct {
	id            uuid.UUID
	actorID       uuid.UUID
	sectionID     uuid.UUID
	status        Status
	justification *string
	requestedAt   time.Time
	decidedAt     *time.Time
	enrolledAt    *time.Time
	withdrawnAt   *time.Time
	decidedBy     *uuid.UUID
	denialReason  *string
	updatedAt     time.Time
}

func NewEnrollment(actorID, sectionID uuid.UUID, justification *string, now time.Time) *Enrollment {
	return &Enrollment{
		id:            uuid.New(),
		actorID:       actorID,
		sectionID:     sectionID,
		status:        StatusRequested,
		justification: justification,
		requestedAt:   now,
		updatedAt:     now,
	}
}

func ReconstructEnrollment(
	id, actorID, sectionID uuid.UUID,
	status Status,
	justification *string,
	requestedAt time.Time,
	decidedAt, enrolledAt, withdrawnAt *time.Time,
	decidedBy *uuid.UUID,
	denialReason *string,
	updatedAt time.Time,
) *Enrollment {
	return &Enrollment{
		id:            id,
		actorID:       actorID,
		sectionID:     sectionID,
		status:        status,
		justification: justification,
		requestedAt:   requestedAt,
		decidedAt:     decidedAt,
		enrolledAt:    enrolledAt,
		withdrawnAt:   withdrawnAt,
		decidedBy:     decidedBy,
		denialReason:  denialReason,
		updatedAt:     updatedAt,
	}
}

func (e *Enrollment) transition(to Status, now time.Time) error {
	if !CanTransition(e.status, to) {
		return ErrInvalidTransition
	}
	e.status = to
	e.updatedAt = now
	return nil
}

// Enroll admits the actor, either directly from Requested or by waitlist
// promotion.
func (e *Enrollment) Enroll(now time.Time) error {
	if err := e.transition(StatusEnrolled, now); err != nil {
		return err
	}
	e.enrolledAt = &now
	if e.decidedAt == nil {
		e.decidedAt = &now
	}
	return nil
}

func (e *Enrollment) Waitlist(now time.Time) error {
	if err := e.transition(StatusWaitlisted, now); err != nil {
		return err
	}
	e.decidedAt = &now
	return nil
}

func (e *Enrollment) Deny(reviewerID uuid.UUID, reason string, now time.Time) error {
	if err := e.transition(StatusDenied, now); err != nil {
		return err
	}
	e.decidedAt = &now
	e.decidedBy = &reviewerID
	e.denialReason = &reason
	return nil
}

func (e *Enrollment) Approve(reviewerID uuid.UUID, now time.Time) {
	e.decidedBy = &reviewerID
	e.decidedAt = &now
	e.updatedAt = now
}

func (e *Enrollment) Withdraw(now time.Time) error {
	if err := e.transition(StatusWithdrawn, now); err != nil {
		return err
	}
	e.withdrawnAt = &now
	return nil
}

func (e *Enrollment) IsActive() bool { return e.status.IsActive() }

func (e *Enrollment) ID() uuid.UUID          { return e.id }
func (e *Enrollment) ActorID() uuid.UUID     { return e.actorID }
func (e *Enrollment) SectionID() uuid.UUID   { return e.sectionID }
func (e *Enrollment) Status() Status         { return e.status }
func (e *Enrollment) Justification() *string { return e.justification }
func (e *Enrollment) RequestedAt() time.Time { return e.requestedAt }
func (e *Enrollment) DecidedAt() *time.Time  { return e.decidedAt }
func (e *Enrollment) EnrolledAt() *time.Time { return e.enrolledAt }
func (e *Enrollment) WithdrawnAt() *time.Time { return e.withdrawnAt }
func (e *Enrollment) DecidedBy() *uuid.UUID  { return e.decidedBy }
func (e *Enrollment) DenialReason() *string  { return e.denialReason }
func (e *Enrollment) UpdatedAt() time.Time   { return e.updatedAt }
