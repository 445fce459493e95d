package waitlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotOffered       = errors.New("entry has no outstanding offer")
	ErrAlreadyOffered   = errors.New("entry already holds an offer")
	ErrOfferNotExpired  = errors.New("offer deadline has not elapsed")
	ErrOfferLapsed      = errors.New("offer deadline has elapsed")
	ErrEntryRemoved     = errors.New("entry no longer on the active queue")
	ErrNegativePriority = errors.New("priority cannot be negative")
)

// Entry is one actor's place in a section's waitlist. Position is derived
// from the (priority desc, enqueued-at asc) total order and never stored.
type Entry struct {
	id            uuid.UUID
	sectionID     uuid.UUID
	actorID       uuid.UUID
	priority      int
	enqueuedAt    time.Time
	offerState    OfferState
	offerDeadline *time.Time
	removedAt     *time.Time
	removalReason *RemovalReason
	createdAt     time.Time
	updatedAt     time.Time
}

func NewEntry(sectionID, actorID uuid.UUID, priority int, now time.Time) (*Entry, error) {
	if priority < 0 {
		return nil, ErrNegativePriority
	}
	return &Entry{
		id:         uuid.New(),
		sectionID:  sectionID,
		actorID:    actorID,
		priority:   priority,
		enqueuedAt: now,
		offerState: OfferNone,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructEntry(
	id, sectionID, actorID uuid.UUID,
	priority int,
	enqueuedAt time.Time,
	offerState OfferState,
	offerDeadline *time.Time,
	removedAt *time.Time,
	removalReason *RemovalReason,
	createdAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		id:            id,
		sectionID:     sectionID,
		actorID:       actorID,
		priority:      priority,
		enqueuedAt:    enqueuedAt,
		offerState:    offerState,
		offerDeadline: offerDeadline,
		removedAt:     removedAt,
		removalReason: removalReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Before defines the promotion order: higher priority first, then earlier
// enqueue time, then id as a stable tiebreaker. Never random.
func (e *Entry) Before(other *Entry) bool {
	if e.priority != other.priority {
		return e.priority > other.priority
	}
	if !e.enqueuedAt.Equal(other.enqueuedAt) {
		return e.enqueuedAt.Before(other.enqueuedAt)
	}
	return e.id.String() < other.id.String()
}

// Offer extends a time-boxed promotion offer to this entry.
func (e *Entry) Offer(deadline time.Time, now time.Time) error {
	if e.removedAt != nil {
		return ErrEntryRemoved
	}
	if e.offerState != OfferNone {
		return ErrAlreadyOffered
	}
	e.offerState = OfferExtended
	e.offerDeadline = &deadline
	e.updatedAt = now
	return nil
}

// Accept confirms an outstanding offer before its deadline. The caller
// reserves the seat and removes the entry with RemovalPromoted.
func (e *Entry) Accept(now time.Time) error {
	if e.offerState != OfferExtended {
		return ErrNotOffered
	}
	if e.offerDeadline != nil && now.After(*e.offerDeadline) {
		return ErrOfferLapsed
	}
	e.offerState = OfferAccepted
	e.updatedAt = now
	return nil
}

// Decline returns the entry to the queue at the back of its priority tier:
// the enqueued-at timestamp is re-stamped so the ordering key sorts it last
// among equal priorities.
func (e *Entry) Decline(now time.Time) error {
	if e.offerState != OfferExtended {
		return ErrNotOffered
	}
	e.offerState = OfferNone
	e.offerDeadline = nil
	e.enqueuedAt = now
	e.updatedAt = now
	return nil
}

// Expire lapses an offer whose deadline has passed and removes the entry
// from the active queue.
func (e *Entry) Expire(now time.Time) error {
	if e.offerState != OfferExtended {
		return ErrNotOffered
	}
	if e.offerDeadline != nil && now.Before(*e.offerDeadline) {
		return ErrOfferNotExpired
	}
	e.offerState = OfferExpired
	e.remove(RemovalExpired, now)
	return nil
}

// Remove takes the entry off the active queue for the given reason.
func (e *Entry) Remove(reason RemovalReason, now time.Time) error {
	if e.removedAt != nil {
		return ErrEntryRemoved
	}
	e.remove(reason, now)
	return nil
}

func (e *Entry) remove(reason RemovalReason, now time.Time) {
	e.removedAt = &now
	e.removalReason = &reason
	e.updatedAt = now
}

func (e *Entry) OfferLapsed(now time.Time) bool {
	return e.offerState == OfferExtended && e.offerDeadline != nil && now.After(*e.offerDeadline)
}

func (e *Entry) IsActive() bool { return e.removedAt == nil }

func (e *Entry) ID() uuid.UUID                  { return e.id }
func (e *Entry) SectionID() uuid.UUID           { return e.sectionID }
func (e *Entry) ActorID() uuid.UUID             { return e.actorID }
func (e *Entry) Priority() int                  { return e.priority }
func (e *Entry) EnqueuedAt() time.Time          { return e.enqueuedAt }
func (e *Entry) OfferState() OfferState         { return e.offerState }
func (e *Entry) OfferDeadline() *time.Time      { return e.offerDeadline }
func (e *Entry) RemovedAt() *time.Time          { return e.removedAt }
func (e *Entry) RemovalReason() *RemovalReason  { return e.removalReason }
func (e *Entry) CreatedAt() time.Time           { return e.createdAt }
func (e *Entry) UpdatedAt() time.Time           { return e.updatedAt }
