package repository

import (
	"context"

	"enrollment-core/internal/domain/waitlist"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistRepository struct {
	db DBTX
}

func NewWaitlistRepository(db DBTX) shared.WaitlistRepository {
	return &WaitlistRepository{db: db}
}

const waitlistColumns = `id, section_id, actor_id, priority, enqueued_at,
	offer_state, offer_deadline, removed_at, removal_reason, created_at, updated_at`

func (r *WaitlistRepository) Create(ctx context.Context, e *waitlist.Entry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO waitlist_entries (`+waitlistColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pgconv.UUIDToPgtype(e.ID()),
		pgconv.UUIDToPgtype(e.SectionID()),
		pgconv.UUIDToPgtype(e.ActorID()),
		e.Priority(),
		pgconv.TimeToPgtype(e.EnqueuedAt()),
		string(e.OfferState()),
		pgconv.TimePtrToPgtype(e.OfferDeadline()),
		pgconv.TimePtrToPgtype(e.RemovedAt()),
		removalReasonToPgtype(e.RemovalReason()),
		pgconv.TimeToPgtype(e.CreatedAt()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	return classifyErr("failed to create waitlist entry", err)
}

func (r *WaitlistRepository) Update(ctx context.Context, e *waitlist.Entry) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE waitlist_entries
		 SET priority = $2, enqueued_at = $3, offer_state = $4, offer_deadline = $5,
		     removed_at = $6, removal_reason = $7, updated_at = $8
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(e.ID()),
		e.Priority(),
		pgconv.TimeToPgtype(e.EnqueuedAt()),
		string(e.OfferState()),
		pgconv.TimePtrToPgtype(e.OfferDeadline()),
		pgconv.TimePtrToPgtype(e.RemovedAt()),
		removalReasonToPgtype(e.RemovalReason()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	if err != nil {
		return classifyErr("failed to update waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "waitlist entry not found", nil)
	}
	return nil
}

func (r *WaitlistRepository) FindActiveByActorAndSection(ctx context.Context, actorID, sectionID uuid.UUID) (*waitlist.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries
		 WHERE actor_id = $1 AND section_id = $2 AND removed_at IS NULL`,
		pgconv.UUIDToPgtype(actorID), pgconv.UUIDToPgtype(sectionID),
	)
	return scanEntry(row)
}

func (r *WaitlistRepository) ListActiveBySection(ctx context.Context, sectionID uuid.UUID) ([]*waitlist.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries
		 WHERE section_id = $1 AND removed_at IS NULL
		 ORDER BY priority DESC, enqueued_at ASC, id ASC`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var entries []*waitlist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *WaitlistRepository) FindOffered(ctx context.Context, sectionID uuid.UUID) (*waitlist.Entry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries
		 WHERE section_id = $1 AND removed_at IS NULL AND offer_state = $2`,
		pgconv.UUIDToPgtype(sectionID), string(waitlist.OfferExtended),
	)
	return scanEntry(row)
}

func (r *WaitlistRepository) CountActive(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM waitlist_entries WHERE section_id = $1 AND removed_at IS NULL`,
		pgconv.UUIDToPgtype(sectionID),
	).Scan(&n)
	if err != nil {
		return 0, classifyErr("failed to count waitlist entries", err)
	}
	return n, nil
}

func removalReasonToPgtype(reason *waitlist.RemovalReason) pgtype.Text {
	if reason == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: string(*reason), Valid: true}
}

func scanEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		id, sectionID, actorID    pgtype.UUID
		priority                  int
		enqueuedAt                pgtype.Timestamptz
		offerState                string
		offerDeadline, removedAt  pgtype.Timestamptz
		removalReason             pgtype.Text
		createdAt, updatedAt      pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &sectionID, &actorID, &priority, &enqueuedAt,
		&offerState, &offerDeadline, &removedAt, &removalReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, classifyErr("failed to find waitlist entry", err)
	}

	var reason *waitlist.RemovalReason
	if s := pgconv.StringPtrFromPgtype(removalReason); s != nil {
		rr := waitlist.RemovalReason(*s)
		reason = &rr
	}

	return waitlist.ReconstructEntry(
		uuid.UUID(id.Bytes), uuid.UUID(sectionID.Bytes), uuid.UUID(actorID.Bytes),
		priority,
		pgconv.TimeFromPgtype(enqueuedAt),
		waitlist.OfferState(offerState),
		pgconv.TimePtrFromPgtype(offerDeadline),
		pgconv.TimePtrFromPgtype(removedAt),
		reason,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
