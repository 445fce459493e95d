package repository

import (
	"context"

	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ActorRepository struct {
	db DBTX
}

func NewActorRepository(db DBTX) shared.ActorRepository {
	return &ActorRepository{db: db}
}

// Snapshot loads the actor's admission-relevant profile: cohort plus the
// completion map the prerequisite checks read.
func (r *ActorRepository) Snapshot(ctx context.Context, actorID uuid.UUID) (*shared.ActorSnapshot, error) {
	var cohort string
	err := r.db.QueryRow(ctx,
		`SELECT cohort FROM actors WHERE id = $1`,
		pgconv.UUIDToPgtype(actorID),
	).Scan(&cohort)
	if err != nil {
		return nil, classifyErr("failed to find actor", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT section_id, grade FROM completions WHERE actor_id = $1`,
		pgconv.UUIDToPgtype(actorID),
	)
	if err != nil {
		return nil, classifyErr("failed to load completions", err)
	}
	defer rows.Close()

	completions := make(map[uuid.UUID]*float64)
	for rows.Next() {
		var (
			sectionID pgtype.UUID
			grade     pgtype.Float8
		)
		if err := rows.Scan(&sectionID, &grade); err != nil {
			return nil, classifyErr("failed to scan completion", err)
		}
		var g *float64
		if grade.Valid {
			v := grade.Float64
			g = &v
		}
		completions[uuid.UUID(sectionID.Bytes)] = g
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr("failed to read completions", err)
	}

	return &shared.ActorSnapshot{
		ID:          actorID,
		Cohort:      cohort,
		Completions: completions,
	}, nil
}
