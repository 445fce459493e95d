package readstore

import (
	"context"

	"enrollment-core/internal/infra/repository"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type WaitlistReadStore struct {
	db repository.DBTX
}

func NewWaitlistReadStore(db repository.DBTX) queries.WaitlistViewRepo {
	return &WaitlistReadStore{db: db}
}

// FindPosition ranks the active queue with the same ordering the promotion
// path uses, so the reported position matches who would actually be offered
// the next seat.
func (r *WaitlistReadStore) FindPosition(ctx context.Context, actorID, sectionID uuid.UUID) (*queries.WaitlistPositionView, error) {
	var (
		entryID       pgtype.UUID
		position      int
		queueLength   int
		priority      int
		offerState    string
		offerDeadline pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx,
		`WITH ranked AS (
		    SELECT id, actor_id, priority, offer_state, offer_deadline,
		           row_number() OVER (ORDER BY priority DESC, enqueued_at ASC, id ASC) AS pos,
		           count(*) OVER () AS total
		    FROM waitlist_entries
		    WHERE section_id = $2 AND removed_at IS NULL
		 )
		 SELECT id, pos, total, priority, offer_state, offer_deadline
		 FROM ranked WHERE actor_id = $1`,
		pgconv.UUIDToPgtype(actorID), pgconv.UUIDToPgtype(sectionID),
	).Scan(&entryID, &position, &queueLength, &priority, &offerState, &offerDeadline)
	if err != nil {
		return nil, classifyReadErr("failed to find waitlist position", err)
	}
	return &queries.WaitlistPositionView{
		EntryID:       uuid.UUID(entryID.Bytes),
		SectionID:     sectionID,
		Position:      position,
		QueueLength:   queueLength,
		Priority:      priority,
		OfferState:    offerState,
		OfferDeadline: pgconv.TimePtrFromPgtype(offerDeadline),
	}, nil
}

func (r *WaitlistReadStore) History(ctx context.Context, sectionID uuid.UUID) (*queries.WaitlistHistory, error) {
	var h queries.WaitlistHistory
	err := r.db.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE removal_reason = 'promoted'),
		        count(*) FILTER (WHERE removal_reason IN ('withdrawn', 'expired', 'conflict-resolved'))
		 FROM waitlist_entries WHERE section_id = $1`,
		pgconv.UUIDToPgtype(sectionID),
	).Scan(&h.Joined, &h.Promoted, &h.Departed)
	if err != nil {
		return nil, classifyReadErr("failed to load waitlist history", err)
	}
	return &h, nil
}
