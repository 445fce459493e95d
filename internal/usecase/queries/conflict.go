package queries

import (
	"context"

	"github.com/google/uuid"
)

type ConflictQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ConflictView, error)
	ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*ConflictView, error)
}

type ConflictViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ConflictView, error)
	ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*ConflictView, error)
}

type conflictQueriesImpl struct {
	repo ConflictViewRepo
}

func NewConflictQueries(repo ConflictViewRepo) ConflictQueries {
	return &conflictQueriesImpl{repo: repo}
}

func (q *conflictQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ConflictView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *conflictQueriesImpl) ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*ConflictView, error) {
	return q.repo.ListOpenBySection(ctx, sectionID)
}
