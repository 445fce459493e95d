package conflict

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyResolved = errors.New("conflict already resolved")
	ErrInvalidStrategy = errors.New("invalid resolution strategy")
	ErrNotOverridable  = errors.New("conflict is not overridable")
)

// Violation is the synchronous eligibility-check finding. Blocking
// violations stop the operation; non-blocking ones are recorded as open
// Conflicts and surfaced for administrator action.
type Violation struct {
	Kind        Kind
	Overridable bool
	Blocking    bool
	Detail      string
	// DuplicateWaitlisted distinguishes a duplicate-enrollment violation
	// whose existing record is a queue slot rather than a held seat. Only
	// meaningful for KindDuplicateEnrollment.
	DuplicateWaitlisted bool
	// RelatedID points at the record this violation conflicts with
	// (an existing enrollment, a prerequisite section, a restriction).
	RelatedID uuid.UUID
}

// Conflict is a persisted rule violation between two records, closed only
// through an explicit resolution action.
type Conflict struct {
	id             uuid.UUID
	kind           Kind
	actorID        uuid.UUID
	sectionID      uuid.UUID
	firstRecordID  uuid.UUID
	secondRecordID uuid.UUID
	overridable    bool
	detail         string
	detectedAt     time.Time
	status         Status
	strategy       *Strategy
	resolvedBy     *uuid.UUID
	resolvedAt     *time.Time
	updatedAt      time.Time
}

func NewConflict(
	kind Kind,
	actorID, sectionID uuid.UUID,
	firstRecordID, secondRecordID uuid.UUID,
	overridable bool,
	detail string,
	now time.Time,
) *Conflict {
	return &Conflict{
		id:             uuid.New(),
		kind:           kind,
		actorID:        actorID,
		sectionID:      sectionID,
		firstRecordID:  firstRecordID,
		secondRecordID: secondRecordID,
		overridable:    overridable,
		detail:         detail,
		detectedAt:     now,
		status:         StatusOpen,
		updatedAt:      now,
	}
}

func ReconstructConflict(
	id uuid.UUID,
	kind Kind,
	actorID, sectionID uuid.UUID,
	firstRecordID, secondRecordID uuid.UUID,
	overridable bool,
	detail string,
	detectedAt time.Time,
	status Status,
	strategy *Strategy,
	resolvedBy *uuid.UUID,
	resolvedAt *time.Time,
	updatedAt time.Time,
) *Conflict {
	return &Conflict{
		id:             id,
		kind:           kind,
		actorID:        actorID,
		sectionID:      sectionID,
		firstRecordID:  firstRecordID,
		secondRecordID: secondRecordID,
		overridable:    overridable,
		detail:         detail,
		detectedAt:     detectedAt,
		status:         status,
		strategy:       strategy,
		resolvedBy:     resolvedBy,
		resolvedAt:     resolvedAt,
		updatedAt:      updatedAt,
	}
}

func (c *Conflict) Investigate(now time.Time) error {
	if c.status == StatusResolved {
		return ErrAlreadyResolved
	}
	c.status = StatusInvestigating
	c.updatedAt = now
	return nil
}

// Resolve records the chosen strategy and closes the conflict. The strategy's
// side effects (dropping a record, overriding) are applied by the caller;
// resolution itself is always recorded, never silently applied.
func (c *Conflict) Resolve(strategy Strategy, resolverID uuid.UUID, now time.Time) error {
	if c.status == StatusResolved {
		return ErrAlreadyResolved
	}
	if !strategy.IsValid() {
		return ErrInvalidStrategy
	}
	if strategy == StrategyManualOverride && !c.overridable {
		return ErrNotOverridable
	}
	c.status = StatusResolved
	c.strategy = &strategy
	c.resolvedBy = &resolverID
	c.resolvedAt = &now
	c.updatedAt = now
	return nil
}

func (c *Conflict) IsOpen() bool { return c.status != StatusResolved }

// SameFinding reports whether other describes the same violation between the
// same records; the batch scan uses it to avoid piling up duplicate records.
// The pair is unordered: a schedule overlap is the same finding no matter
// which side the scan came in on.
func (c *Conflict) SameFinding(kind Kind, firstRecordID, secondRecordID uuid.UUID) bool {
	if c.kind != kind {
		return false
	}
	if c.firstRecordID == firstRecordID && c.secondRecordID == secondRecordID {
		return true
	}
	return c.firstRecordID == secondRecordID && c.secondRecordID == firstRecordID
}

func (c *Conflict) ID() uuid.UUID             { return c.id }
func (c *Conflict) Kind() Kind                { return c.kind }
func (c *Conflict) ActorID() uuid.UUID        { return c.actorID }
func (c *Conflict) SectionID() uuid.UUID      { return c.sectionID }
func (c *Conflict) FirstRecordID() uuid.UUID  { return c.firstRecordID }
func (c *Conflict) SecondRecordID() uuid.UUID { return c.secondRecordID }
func (c *Conflict) Overridable() bool         { return c.overridable }
func (c *Conflict) Detail() string            { return c.detail }
func (c *Conflict) DetectedAt() time.Time     { return c.detectedAt }
func (c *Conflict) Status() Status            { return c.status }
func (c *Conflict) StrategyUsed() *Strategy   { return c.strategy }
func (c *Conflict) ResolvedBy() *uuid.UUID    { return c.resolvedBy }
func (c *Conflict) ResolvedAt() *time.Time    { return c.resolvedAt }
func (c *Conflict) UpdatedAt() time.Time      { return c.updatedAt }
