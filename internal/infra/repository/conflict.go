package repository

import (
	"context"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ConflictRepository struct {
	db DBTX
}

func NewConflictRepository(db DBTX) shared.ConflictRepository {
	return &ConflictRepository{db: db}
}

const conflictColumns = `id, kind, actor_id, section_id, first_record_id, second_record_id,
	overridable, detail, detected_at, status, strategy, resolved_by, resolved_at, updated_at`

func (r *ConflictRepository) Create(ctx context.Context, c *conflict.Conflict) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conflicts (`+conflictColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		pgconv.UUIDToPgtype(c.ID()),
		string(c.Kind()),
		pgconv.UUIDToPgtype(c.ActorID()),
		pgconv.UUIDToPgtype(c.SectionID()),
		pgconv.UUIDToPgtype(c.FirstRecordID()),
		pgconv.UUIDToPgtype(c.SecondRecordID()),
		c.Overridable(),
		c.Detail(),
		pgconv.TimeToPgtype(c.DetectedAt()),
		string(c.Status()),
		strategyToPgtype(c.StrategyUsed()),
		pgconv.UUIDPtrToPgtype(c.ResolvedBy()),
		pgconv.TimePtrToPgtype(c.ResolvedAt()),
		pgconv.TimeToPgtype(c.UpdatedAt()),
	)
	return classifyErr("failed to create conflict", err)
}

func (r *ConflictRepository) Update(ctx context.Context, c *conflict.Conflict) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE conflicts
		 SET status = $2, strategy = $3, resolved_by = $4, resolved_at = $5, updated_at = $6
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(c.ID()),
		string(c.Status()),
		strategyToPgtype(c.StrategyUsed()),
		pgconv.UUIDPtrToPgtype(c.ResolvedBy()),
		pgconv.TimePtrToPgtype(c.ResolvedAt()),
		pgconv.TimeToPgtype(c.UpdatedAt()),
	)
	if err != nil {
		return classifyErr("failed to update conflict", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "conflict not found", nil)
	}
	return nil
}

func (r *ConflictRepository) FindByID(ctx context.Context, id uuid.UUID) (*conflict.Conflict, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+conflictColumns+` FROM conflicts WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanConflict(row)
}

func (r *ConflictRepository) ListOpenBySection(ctx context.Context, sectionID uuid.UUID) ([]*conflict.Conflict, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+conflictColumns+` FROM conflicts
		 WHERE section_id = $1 AND status <> 'resolved'
		 ORDER BY detected_at`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to list open conflicts", err)
	}
	defer rows.Close()

	var conflicts []*conflict.Conflict
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

func (r *ConflictRepository) ListOpenByActor(ctx context.Context, actorID uuid.UUID) ([]*conflict.Conflict, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+conflictColumns+` FROM conflicts
		 WHERE actor_id = $1 AND status <> 'resolved'
		 ORDER BY detected_at`,
		pgconv.UUIDToPgtype(actorID),
	)
	if err != nil {
		return nil, classifyErr("failed to list open conflicts", err)
	}
	defer rows.Close()

	var conflicts []*conflict.Conflict
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}

func strategyToPgtype(s *conflict.Strategy) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: string(*s), Valid: true}
}

func scanConflict(row pgx.Row) (*conflict.Conflict, error) {
	var (
		id, actorID, sectionID          pgtype.UUID
		firstRecordID, secondRecordID   pgtype.UUID
		kind, detail, status            string
		overridable                     bool
		detectedAt, updatedAt           pgtype.Timestamptz
		strategy                        pgtype.Text
		resolvedBy                      pgtype.UUID
		resolvedAt                      pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &kind, &actorID, &sectionID, &firstRecordID, &secondRecordID,
		&overridable, &detail, &detectedAt, &status, &strategy,
		&resolvedBy, &resolvedAt, &updatedAt,
	)
	if err != nil {
		return nil, classifyErr("failed to find conflict", err)
	}

	var strat *conflict.Strategy
	if s := pgconv.StringPtrFromPgtype(strategy); s != nil {
		cs := conflict.Strategy(*s)
		strat = &cs
	}

	return conflict.ReconstructConflict(
		uuid.UUID(id.Bytes),
		conflict.Kind(kind),
		uuid.UUID(actorID.Bytes), uuid.UUID(sectionID.Bytes),
		uuid.UUID(firstRecordID.Bytes), uuid.UUID(secondRecordID.Bytes),
		overridable, detail,
		pgconv.TimeFromPgtype(detectedAt),
		conflict.Status(status),
		strat,
		pgconv.UUIDPtrFromPgtype(resolvedBy),
		pgconv.TimePtrFromPgtype(resolvedAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
