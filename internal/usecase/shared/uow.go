package shared

import (
	"context"
	"time"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/domain/waitlist"

	"github.com/google/uuid"
)

// UnitOfWork is the abstract transactional store every component depends on.
// All mutation of one section's seats and queue happens inside a single
// Within call with the section row locked (FindByIDForUpdate), which is the
// per-section serialization point; transactions touching different sections
// proceed in parallel.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Sections() SectionRepository
	Enrollments() EnrollmentRepository
	Waitlist() WaitlistRepository
	Conflicts() ConflictRepository
	Actors() ActorRepository
	Outbox() OutboxRepository
}

type SectionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*section.Section, error)
	// FindByIDForUpdate locks the section row for the remainder of the
	// transaction. Seat reservation, release, capacity edits and offer
	// handling all go through this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*section.Section, error)
	Save(ctx context.Context, s *section.Section) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *enrollment.Enrollment) error
	Update(ctx context.Context, e *enrollment.Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error)
	// FindActiveByActorAndSection returns the non-terminal record for the
	// pair, or a NOT_FOUND repository error.
	FindActiveByActorAndSection(ctx context.Context, actorID, sectionID uuid.UUID) (*enrollment.Enrollment, error)
	ListActiveByActor(ctx context.Context, actorID uuid.UUID) ([]*enrollment.Enrollment, error)
	ListActiveBySection(ctx context.Context, sectionID uuid.UUID) ([]*enrollment.Enrollment, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *waitlist.Entry) error
	Update(ctx context.Context, e *waitlist.Entry) error
	FindActiveByActorAndSection(ctx context.Context, actorID, sectionID uuid.UUID) (*waitlist.Entry, error)
	// ListActiveBySection returns active entries ordered by
	// (priority desc, enqueued_at asc, id asc).
	ListActiveBySection(ctx context.Context, sectionID uuid.UUID) ([]*waitlist.Entry, error)
	// FindOffered returns the single entry currently holding an offer for
	// the section, or a NOT_FOUND repository error.
	FindOffered(ctx context.Context, sectionID uuid.UUID) (*waitlist.Entry, error)
	CountActive(ctx context.Context, sectionID uuid.UUID) (int, error)
}

type ConflictRepository interface {
	Create(ctx context.Context, c *conflict.Conflict) error
	Update(ctx context.Context, c *conflict.Conflict) error
	FindByID(ctx context.Context, id uuid.UUID) (*conflict.Conflict, error)
	ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*conflict.Conflict, error)
	// ListOpenByActor returns the actor's open conflicts across all
	// sections; the batch scan uses it to dedupe findings that span two
	// sections.
	ListOpenByActor(ctx context.Context, actorID uuid.UUID) ([]*conflict.Conflict, error)
}

type ActorRepository interface {
	// Snapshot returns the actor's admission-relevant profile, or a
	// NOT_FOUND repository error for an unknown actor.
	Snapshot(ctx context.Context, actorID uuid.UUID) (*ActorSnapshot, error)
}

// OutboxRepository persists abstract side-effect events in the same
// transaction as the state change; an external dispatcher delivers them.
type OutboxRepository interface {
	Append(ctx context.Context, topic string, payload []byte, runAt time.Time) error
}

// ActorSnapshot is the write-side view of an actor used by eligibility
// checks: cohort for restriction rules, completions for prerequisites
// (section id -> grade, nil grade when ungraded).
type ActorSnapshot struct {
	ID          uuid.UUID
	Cohort      string
	Completions map[uuid.UUID]*float64
}
