//go:build unit || e2e

package builder

import (
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ActorBuilder struct {
	ID          uuid.UUID
	Cohort      string
	Completions map[uuid.UUID]*float64
}

func NewActorBuilder() *ActorBuilder {
	return &ActorBuilder{
		ID:          uuid.New(),
		Cohort:      "2026",
		Completions: map[uuid.UUID]*float64{},
	}
}

func (b *ActorBuilder) WithCohort(cohort string) *ActorBuilder {
	b.Cohort = cohort
	return b
}

// WithCompletion marks a section completed; pass nil for an ungraded
// completion.
func (b *ActorBuilder) WithCompletion(sectionID uuid.UUID, grade *float64) *ActorBuilder {
	b.Completions[sectionID] = grade
	return b
}

func (b *ActorBuilder) BuildSnapshot() *shared.ActorSnapshot {
	return &shared.ActorSnapshot{
		ID:          b.ID,
		Cohort:      b.Cohort,
		Completions: b.Completions,
	}
}
