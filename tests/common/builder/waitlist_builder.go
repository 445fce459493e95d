//go:build unit || e2e

package builder

import (
	"time"

	domwaitlist "enrollment-core/internal/domain/waitlist"

	"github.com/google/uuid"
)

type EntryBuilder struct {
	ID         uuid.UUID
	SectionID  uuid.UUID
	ActorID    uuid.UUID
	Priority   int
	EnqueuedAt time.Time
}

func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{
		ID:         uuid.New(),
		SectionID:  uuid.New(),
		ActorID:    uuid.New(),
		Priority:   0,
		EnqueuedAt: time.Now(),
	}
}

func (b *EntryBuilder) WithPriority(p int) *EntryBuilder {
	b.Priority = p
	return b
}

func (b *EntryBuilder) WithEnqueuedAt(t time.Time) *EntryBuilder {
	b.EnqueuedAt = t
	return b
}

func (b *EntryBuilder) WithPair(actorID, sectionID uuid.UUID) *EntryBuilder {
	b.ActorID = actorID
	b.SectionID = sectionID
	return b
}

func (b *EntryBuilder) BuildDomain() *domwaitlist.Entry {
	return domwaitlist.ReconstructEntry(
		b.ID, b.SectionID, b.ActorID,
		b.Priority,
		b.EnqueuedAt,
		domwaitlist.OfferNone,
		nil,
		nil,
		nil,
		b.EnqueuedAt, b.EnqueuedAt,
	)
}
