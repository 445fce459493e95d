package section

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity       = errors.New("capacity must be a positive integer")
	ErrCapacityBelowEnrolled = errors.New("capacity cannot drop below current enrollment")
	ErrSectionFull           = errors.New("section is full")
	ErrNoSeatsHeld           = errors.New("no seats held")
	ErrOverbooked            = errors.New("enrolled count exceeds capacity")
)

// Section is a capacity-bounded admission target. The enrolled counter is
// mutated only through Reserve/Release so the 0 <= enrolled <= capacity
// invariant holds after every operation.
type Section struct {
	id               uuid.UUID
	name             string
	capacity         int
	enrolled         int
	waitlistCapacity *int
	requiresApproval bool
	meetings         []MeetingWindow
	prerequisites    []Prerequisite
	restrictions     []Restriction
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSection(name string, capacity int, waitlistCapacity *int, requiresApproval bool) (*Section, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if waitlistCapacity != nil && *waitlistCapacity < 0 {
		return nil, ErrInvalidCapacity
	}
	return &Section{
		id:               uuid.New(),
		name:             name,
		capacity:         capacity,
		enrolled:         0,
		waitlistCapacity: waitlistCapacity,
		requiresApproval: requiresApproval,
	}, nil
}

func ReconstructSection(
	id uuid.UUID,
	name string,
	capacity, enrolled int,
	waitlistCapacity *int,
	requiresApproval bool,
	meetings []MeetingWindow,
	prerequisites []Prerequisite,
	restrictions []Restriction,
	version int64,
	createdAt, updatedAt time.Time,
) *Section {
	return &Section{
		id:               id,
		name:             name,
		capacity:         capacity,
		enrolled:         enrolled,
		waitlistCapacity: waitlistCapacity,
		requiresApproval: requiresApproval,
		meetings:         meetings,
		prerequisites:    prerequisites,
		restrictions:     restrictions,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Reserve claims one seat. It is the only way the enrolled counter goes up;
// callers must hold the section's serialization point (row lock) so that two
// reservations cannot both observe the last free seat.
func (s *Section) Reserve() error {
	if s.enrolled >= s.capacity {
		return ErrSectionFull
	}
	s.enrolled++
	return nil
}

// Release frees one seat.
func (s *Section) Release() error {
	if s.enrolled <= 0 {
		return ErrNoSeatsHeld
	}
	s.enrolled--
	return nil
}

// ChangeCapacity applies an admin capacity edit. Shrinking below the current
// enrollment is rejected; capacity changes never evict enrolled actors.
func (s *Section) ChangeCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}
	if capacity < s.enrolled {
		return ErrCapacityBelowEnrolled
	}
	s.capacity = capacity
	return nil
}

func (s *Section) HasOpenSeat() bool {
	return s.enrolled < s.capacity
}

// WaitlistOpen reports whether another entry fits the waitlist. A nil
// waitlist capacity means unbounded.
func (s *Section) WaitlistOpen(currentEntries int) bool {
	if s.waitlistCapacity == nil {
		return true
	}
	return currentEntries < *s.waitlistCapacity
}

// CheckInvariant validates 0 <= enrolled <= capacity; used by the batch
// conflict scan to surface overbooking introduced by out-of-band edits.
func (s *Section) CheckInvariant() error {
	if s.enrolled > s.capacity {
		return ErrOverbooked
	}
	return nil
}

func (s *Section) OverlapsSchedule(other *Section) bool {
	for _, m := range s.meetings {
		for _, o := range other.meetings {
			if m.Overlaps(o) {
				return true
			}
		}
	}
	return false
}

func (s *Section) ID() uuid.UUID                  { return s.id }
func (s *Section) Name() string                   { return s.name }
func (s *Section) Capacity() int                  { return s.capacity }
func (s *Section) Enrolled() int                  { return s.enrolled }
func (s *Section) WaitlistCapacity() *int         { return s.waitlistCapacity }
func (s *Section) RequiresApproval() bool         { return s.requiresApproval }
func (s *Section) Meetings() []MeetingWindow      { return s.meetings }
func (s *Section) Prerequisites() []Prerequisite  { return s.prerequisites }
func (s *Section) Restrictions() []Restriction    { return s.restrictions }
func (s *Section) Version() int64                 { return s.version }
func (s *Section) CreatedAt() time.Time           { return s.createdAt }
func (s *Section) UpdatedAt() time.Time           { return s.updatedAt }
