// Package readstore implements the query-side view repositories with SQL
// tuned for the read shape, bypassing the domain aggregates.
package readstore

import (
	"context"

	"enrollment-core/internal/infra/repository"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type EnrollmentReadStore struct {
	db repository.DBTX
}

func NewEnrollmentReadStore(db repository.DBTX) queries.EnrollmentViewRepo {
	return &EnrollmentReadStore{db: db}
}

func (r *EnrollmentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.EnrollmentView, error) {
	var (
		view                                pgtype.UUID
		actorID, sectionID                  pgtype.UUID
		sectionName, status                 string
		justification, denialReason         pgtype.Text
		requestedAt                         pgtype.Timestamptz
		decidedAt, enrolledAt, withdrawnAt  pgtype.Timestamptz
		decidedBy                           pgtype.UUID
	)
	err := r.db.QueryRow(ctx,
		`SELECT e.id, e.actor_id, e.section_id, s.name, e.status, e.justification,
		        e.requested_at, e.decided_at, e.enrolled_at, e.withdrawn_at,
		        e.decided_by, e.denial_reason
		 FROM enrollments e
		 JOIN sections s ON s.id = e.section_id
		 WHERE e.id = $1`,
		pgconv.UUIDToPgtype(id),
	).Scan(
		&view, &actorID, &sectionID, &sectionName, &status, &justification,
		&requestedAt, &decidedAt, &enrolledAt, &withdrawnAt,
		&decidedBy, &denialReason,
	)
	if err != nil {
		return nil, classifyReadErr("failed to find enrollment view", err)
	}
	return &queries.EnrollmentView{
		ID:            uuid.UUID(view.Bytes),
		ActorID:       uuid.UUID(actorID.Bytes),
		SectionID:     uuid.UUID(sectionID.Bytes),
		SectionName:   sectionName,
		Status:        status,
		Justification: pgconv.StringPtrFromPgtype(justification),
		RequestedAt:   pgconv.TimeFromPgtype(requestedAt),
		DecidedAt:     pgconv.TimePtrFromPgtype(decidedAt),
		EnrolledAt:    pgconv.TimePtrFromPgtype(enrolledAt),
		WithdrawnAt:   pgconv.TimePtrFromPgtype(withdrawnAt),
		DecidedBy:     pgconv.UUIDPtrFromPgtype(decidedBy),
		DenialReason:  pgconv.StringPtrFromPgtype(denialReason),
	}, nil
}

func (r *EnrollmentReadStore) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*queries.EnrollmentListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.section_id, s.name, e.status, e.requested_at
		 FROM enrollments e
		 JOIN sections s ON s.id = e.section_id
		 WHERE e.actor_id = $1
		 ORDER BY e.requested_at DESC`,
		pgconv.UUIDToPgtype(actorID),
	)
	if err != nil {
		return nil, classifyReadErr("failed to list enrollments", err)
	}
	defer rows.Close()

	var items []*queries.EnrollmentListItem
	for rows.Next() {
		var (
			id, sectionID pgtype.UUID
			sectionName   string
			status        string
			requestedAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &sectionID, &sectionName, &status, &requestedAt); err != nil {
			return nil, classifyReadErr("failed to scan enrollment item", err)
		}
		items = append(items, &queries.EnrollmentListItem{
			ID:          uuid.UUID(id.Bytes),
			SectionID:   uuid.UUID(sectionID.Bytes),
			SectionName: sectionName,
			Status:      status,
			RequestedAt: pgconv.TimeFromPgtype(requestedAt),
		})
	}
	return items, rows.Err()
}
