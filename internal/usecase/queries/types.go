package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type EnrollmentView struct {
	ID            uuid.UUID  `json:"id"`
	ActorID       uuid.UUID  `json:"actor_id"`
	SectionID     uuid.UUID  `json:"section_id"`
	SectionName   string     `json:"section_name"`
	Status        string     `json:"status"`
	Justification *string    `json:"justification,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	EnrolledAt    *time.Time `json:"enrolled_at,omitempty"`
	WithdrawnAt   *time.Time `json:"withdrawn_at,omitempty"`
	DecidedBy     *uuid.UUID `json:"decided_by,omitempty"`
	DenialReason  *string    `json:"denial_reason,omitempty"`
}

type EnrollmentListItem struct {
	ID          uuid.UUID `json:"id"`
	SectionID   uuid.UUID `json:"section_id"`
	SectionName string    `json:"section_name"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

type SectionUtilizationView struct {
	SectionID        uuid.UUID `json:"section_id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	Enrolled         int       `json:"enrolled"`
	AvailableSeats   int       `json:"available_seats"`
	UtilizationPct   float64   `json:"utilization_pct"`
	WaitlistCapacity *int      `json:"waitlist_capacity,omitempty"`
	WaitlistLength   int       `json:"waitlist_length"`
	RequiresApproval bool      `json:"requires_approval"`
}

type WaitlistPositionView struct {
	EntryID       uuid.UUID  `json:"entry_id"`
	SectionID     uuid.UUID  `json:"section_id"`
	Position      int        `json:"position"`
	QueueLength   int        `json:"queue_length"`
	Priority      int        `json:"priority"`
	OfferState    string     `json:"offer_state"`
	OfferDeadline *time.Time `json:"offer_deadline,omitempty"`
	// Probability is a rough promotion likelihood derived from the
	// section's queue history, not a guarantee.
	Probability float64 `json:"probability"`
}

// WaitlistHistory aggregates a section's queue history for the probability
// heuristic.
type WaitlistHistory struct {
	Joined   int `json:"joined"`
	Promoted int `json:"promoted"`
	Departed int `json:"departed"`
}

type ConflictView struct {
	ID             uuid.UUID  `json:"id"`
	Kind           string     `json:"kind"`
	ActorID        uuid.UUID  `json:"actor_id"`
	SectionID      uuid.UUID  `json:"section_id"`
	FirstRecordID  uuid.UUID  `json:"first_record_id"`
	SecondRecordID uuid.UUID  `json:"second_record_id"`
	Overridable    bool       `json:"overridable"`
	Detail         string     `json:"detail"`
	Status         string     `json:"status"`
	Strategy       *string    `json:"strategy,omitempty"`
	DetectedAt     time.Time  `json:"detected_at"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}
