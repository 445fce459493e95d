package readstore

import (
	"context"

	"enrollment-core/internal/infra/repository"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ConflictReadStore struct {
	db repository.DBTX
}

func NewConflictReadStore(db repository.DBTX) queries.ConflictViewRepo {
	return &ConflictReadStore{db: db}
}

const conflictViewColumns = `id, kind, actor_id, section_id, first_record_id, second_record_id,
	overridable, detail, status, strategy, detected_at, resolved_by, resolved_at`

func (r *ConflictReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ConflictView, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+conflictViewColumns+` FROM conflicts WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanConflictView(row)
}

func (r *ConflictReadStore) ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*queries.ConflictView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+conflictViewColumns+` FROM conflicts
		 WHERE section_id = $1 AND status <> 'resolved'
		 ORDER BY detected_at`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyReadErr("failed to list open conflicts", err)
	}
	defer rows.Close()

	var views []*queries.ConflictView
	for rows.Next() {
		v, err := scanConflictView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func scanConflictView(row pgx.Row) (*queries.ConflictView, error) {
	var (
		id, actorID, sectionID        pgtype.UUID
		firstRecordID, secondRecordID pgtype.UUID
		kind, detail, status          string
		overridable                   bool
		strategy                      pgtype.Text
		detectedAt, resolvedAt        pgtype.Timestamptz
		resolvedBy                    pgtype.UUID
	)
	err := row.Scan(
		&id, &kind, &actorID, &sectionID, &firstRecordID, &secondRecordID,
		&overridable, &detail, &status, &strategy, &detectedAt, &resolvedBy, &resolvedAt,
	)
	if err != nil {
		return nil, classifyReadErr("failed to find conflict view", err)
	}
	return &queries.ConflictView{
		ID:             uuid.UUID(id.Bytes),
		Kind:           kind,
		ActorID:        uuid.UUID(actorID.Bytes),
		SectionID:      uuid.UUID(sectionID.Bytes),
		FirstRecordID:  uuid.UUID(firstRecordID.Bytes),
		SecondRecordID: uuid.UUID(secondRecordID.Bytes),
		Overridable:    overridable,
		Detail:         detail,
		Status:         status,
		Strategy:       pgconv.StringPtrFromPgtype(strategy),
		DetectedAt:     pgconv.TimeFromPgtype(detectedAt),
		ResolvedBy:     pgconv.UUIDPtrFromPgtype(resolvedBy),
		ResolvedAt:     pgconv.TimePtrFromPgtype(resolvedAt),
	}, nil
}
