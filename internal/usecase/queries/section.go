package queries

import (
	"context"

	"github.com/google/uuid"
)

type SectionQueries interface {
	Utilization(ctx context.Context, sectionID uuid.UUID) (*SectionUtilizationView, error)
}

type SectionViewRepo interface {
	// FindUtilization returns the raw counters; derived fields are filled by
	// the query layer.
	FindUtilization(ctx context.Context, sectionID uuid.UUID) (*SectionUtilizationView, error)
}

type sectionQueriesImpl struct {
	repo SectionViewRepo
}

func NewSectionQueries(repo SectionViewRepo) SectionQueries {
	return &sectionQueriesImpl{repo: repo}
}

func (q *sectionQueriesImpl) Utilization(ctx context.Context, sectionID uuid.UUID) (*SectionUtilizationView, error) {
	view, err := q.repo.FindUtilization(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	view.AvailableSeats = view.Capacity - view.Enrolled
	if view.AvailableSeats < 0 {
		view.AvailableSeats = 0
	}
	if view.Capacity > 0 {
		view.UtilizationPct = float64(view.Enrolled) / float64(view.Capacity) * 100
	}
	return view, nil
}
