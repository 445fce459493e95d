package readstore

import (
	"context"

	"enrollment-core/internal/infra/repository"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SectionReadStore struct {
	db repository.DBTX
}

func NewSectionReadStore(db repository.DBTX) queries.SectionViewRepo {
	return &SectionReadStore{db: db}
}

func (r *SectionReadStore) FindUtilization(ctx context.Context, sectionID uuid.UUID) (*queries.SectionUtilizationView, error) {
	var (
		name             string
		capacity         int
		enrolled         int
		waitlistCapacity pgtype.Int4
		requiresApproval bool
		waitlistLength   int
	)
	err := r.db.QueryRow(ctx,
		`SELECT s.name, s.capacity, s.enrolled, s.waitlist_capacity, s.requires_approval,
		        (SELECT count(*) FROM waitlist_entries w
		          WHERE w.section_id = s.id AND w.removed_at IS NULL)
		 FROM sections s WHERE s.id = $1`,
		pgconv.UUIDToPgtype(sectionID),
	).Scan(&name, &capacity, &enrolled, &waitlistCapacity, &requiresApproval, &waitlistLength)
	if err != nil {
		return nil, classifyReadErr("failed to find section utilization", err)
	}

	var wlCap *int
	if p := pgconv.Int32PtrFromPgtype(waitlistCapacity); p != nil {
		v := int(*p)
		wlCap = &v
	}
	return &queries.SectionUtilizationView{
		SectionID:        sectionID,
		Name:             name,
		Capacity:         capacity,
		Enrolled:         enrolled,
		WaitlistCapacity: wlCap,
		WaitlistLength:   waitlistLength,
		RequiresApproval: requiresApproval,
	}, nil
}
