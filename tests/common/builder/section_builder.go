//go:build unit || e2e

package builder

import (
	"time"

	domsection "enrollment-core/internal/domain/section"

	"github.com/google/uuid"
)

type SectionBuilder struct {
	ID               uuid.UUID
	Name             string
	Capacity         int
	Enrolled         int
	WaitlistCapacity *int
	RequiresApproval bool
	Meetings         []domsection.MeetingWindow
	Prerequisites    []domsection.Prerequisite
	Restrictions     []domsection.Restriction
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewSectionBuilder() *SectionBuilder {
	now := time.Now()
	return &SectionBuilder{
		ID:        uuid.New(),
		Name:      "Distributed Systems",
		Capacity:  30,
		Enrolled:  0,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *SectionBuilder) With(mutate func(*SectionBuilder)) *SectionBuilder {
	mutate(b)
	return b
}

func (b *SectionBuilder) WithCapacity(capacity, enrolled int) *SectionBuilder {
	b.Capacity = capacity
	b.Enrolled = enrolled
	return b
}

func (b *SectionBuilder) WithWaitlistCapacity(n int) *SectionBuilder {
	b.WaitlistCapacity = &n
	return b
}

func (b *SectionBuilder) WithApprovalRequired() *SectionBuilder {
	b.RequiresApproval = true
	return b
}

func (b *SectionBuilder) WithMeeting(day time.Weekday, startMin, endMin int) *SectionBuilder {
	w, err := domsection.NewMeetingWindow(day, startMin, endMin)
	if err != nil {
		panic(err)
	}
	b.Meetings = append(b.Meetings, w)
	return b
}

func (b *SectionBuilder) WithPrerequisite(requiredID uuid.UUID, minGrade *float64, strict bool) *SectionBuilder {
	b.Prerequisites = append(b.Prerequisites, domsection.Prerequisite{
		RequiredSectionID: requiredID,
		MinGrade:          minGrade,
		Strict:            strict,
	})
	return b
}

func (b *SectionBuilder) WithRestriction(kind, rule string, overridable bool) *SectionBuilder {
	b.Restrictions = append(b.Restrictions, domsection.Restriction{
		ID:          uuid.New(),
		Kind:        kind,
		Rule:        rule,
		Overridable: overridable,
	})
	return b
}

func (b *SectionBuilder) BuildDomain() *domsection.Section {
	return domsection.ReconstructSection(
		b.ID,
		b.Name,
		b.Capacity, b.Enrolled,
		b.WaitlistCapacity,
		b.RequiresApproval,
		b.Meetings,
		b.Prerequisites,
		b.Restrictions,
		b.Version,
		b.CreatedAt, b.UpdatedAt,
	)
}
