package queries

import (
	"context"

	"github.com/google/uuid"
)

type EnrollmentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*EnrollmentView, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*EnrollmentListItem, error)
}

type EnrollmentViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EnrollmentView, error)
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]*EnrollmentListItem, error)
}

type enrollmentQueriesImpl struct {
	repo EnrollmentViewRepo
}

func NewEnrollmentQueries(repo EnrollmentViewRepo) EnrollmentQueries {
	return &enrollmentQueriesImpl{repo: repo}
}

func (q *enrollmentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*EnrollmentView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *enrollmentQueriesImpl) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*EnrollmentListItem, error) {
	return q.repo.ListByActor(ctx, actorID)
}
