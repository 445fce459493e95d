//go:build unit || e2e

package builder

import (
	"time"

	domenrollment "enrollment-core/internal/domain/enrollment"

	"github.com/google/uuid"
)

type EnrollmentBuilder struct {
	ID            uuid.UUID
	ActorID       uuid.UUID
	SectionID     uuid.UUID
	Status        domenrollment.Status
	Justification *string
	RequestedAt   time.Time
	UpdatedAt     time.Time
}

func NewEnrollmentBuilder() *EnrollmentBuilder {
	now := time.Now()
	return &EnrollmentBuilder{
		ID:          uuid.New(),
		ActorID:     uuid.New(),
		SectionID:   uuid.New(),
		Status:      domenrollment.StatusRequested,
		RequestedAt: now,
		UpdatedAt:   now,
	}
}

func (b *EnrollmentBuilder) With(mutate func(*EnrollmentBuilder)) *EnrollmentBuilder {
	mutate(b)
	return b
}

func (b *EnrollmentBuilder) WithStatus(s domenrollment.Status) *EnrollmentBuilder {
	b.Status = s
	return b
}

func (b *EnrollmentBuilder) WithPair(actorID, sectionID uuid.UUID) *EnrollmentBuilder {
	b.ActorID = actorID
	b.SectionID = sectionID
	return b
}

func (b *EnrollmentBuilder) BuildDomain() *domenrollment.Enrollment {
	return domenrollment.ReconstructEnrollment(
		b.ID, b.ActorID, b.SectionID,
		b.Status,
		b.Justification,
		b.RequestedAt,
		nil, nil, nil,
		nil,
		nil,
		b.UpdatedAt,
	)
}
