package section

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MeetingWindow is a weekly recurring time slot, minutes from midnight.
type MeetingWindow struct {
	day      time.Weekday
	startMin int
	endMin   int
}

func NewMeetingWindow(day time.Weekday, startMin, endMin int) (MeetingWindow, error) {
	if startMin < 0 || endMin > 24*60 || startMin >= endMin {
		return MeetingWindow{}, errors.New("meeting window must satisfy 0 <= start < end <= 1440")
	}
	return MeetingWindow{day: day, startMin: startMin, endMin: endMin}, nil
}

func (w MeetingWindow) Day() time.Weekday { return w.day }
func (w MeetingWindow) StartMin() int     { return w.startMin }
func (w MeetingWindow) EndMin() int       { return w.endMin }

func (w MeetingWindow) Overlaps(other MeetingWindow) bool {
	if w.day != other.day {
		return false
	}
	return w.startMin < other.endMin && other.startMin < w.endMin
}

// Prerequisite requires a completed section, optionally with a minimum
// grade. Strict prerequisites block admission; non-strict ones admit but
// open an overridable conflict for administrator review.
type Prerequisite struct {
	RequiredSectionID uuid.UUID
	MinGrade          *float64
	Strict            bool
}

// Satisfied checks a completion grade against the prerequisite. A nil grade
// is an ungraded completion and satisfies only when no minimum is set.
func (p Prerequisite) Satisfied(grade *float64) bool {
	if p.MinGrade == nil {
		return true
	}
	return grade != nil && *grade >= *p.MinGrade
}

// Restriction is an arbitrary admission rule evaluated against the actor
// (quota, cohort, time window, etc.). Rules are opaque to the core; the
// evaluator lives in the conflict resolver.
type Restriction struct {
	ID          uuid.UUID
	Kind        string
	Rule        string
	Overridable bool
}
