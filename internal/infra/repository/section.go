package repository

import (
	"context"
	"time"

	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SectionRepository struct {
	db DBTX
}

func NewSectionRepository(db DBTX) shared.SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = `id, name, capacity, enrolled, waitlist_capacity, requires_approval, version, created_at, updated_at`

func (r *SectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*section.Section, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate takes the row lock that serializes all seat and queue
// mutation for one section. It is only meaningful inside a transaction.
func (r *SectionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*section.Section, error) {
	return r.findByID(ctx, id, true)
}

func (r *SectionRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*section.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		secID            pgtype.UUID
		name             string
		capacity         int
		enrolled         int
		waitlistCapacity pgtype.Int4
		requiresApproval bool
		version          int64
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&secID, &name, &capacity, &enrolled, &waitlistCapacity,
		&requiresApproval, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, classifyErr("failed to find section", err)
	}

	meetings, err := r.loadMeetings(ctx, id)
	if err != nil {
		return nil, err
	}
	prerequisites, err := r.loadPrerequisites(ctx, id)
	if err != nil {
		return nil, err
	}
	restrictions, err := r.loadRestrictions(ctx, id)
	if err != nil {
		return nil, err
	}

	var wlCap *int
	if p := pgconv.Int32PtrFromPgtype(waitlistCapacity); p != nil {
		v := int(*p)
		wlCap = &v
	}

	return section.ReconstructSection(
		id, name, capacity, enrolled, wlCap, requiresApproval,
		meetings, prerequisites, restrictions, version,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *SectionRepository) loadMeetings(ctx context.Context, sectionID uuid.UUID) ([]section.MeetingWindow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT weekday, start_min, end_min FROM section_meetings WHERE section_id = $1`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to load section meetings", err)
	}
	defer rows.Close()

	var meetings []section.MeetingWindow
	for rows.Next() {
		var (
			weekday  int16
			startMin int
			endMin   int
		)
		if err := rows.Scan(&weekday, &startMin, &endMin); err != nil {
			return nil, classifyErr("failed to scan section meeting", err)
		}
		w, err := section.NewMeetingWindow(time.Weekday(weekday), startMin, endMin)
		if err != nil {
			return nil, infra.NewRepoErr(infra.KindDBFailure, "stored meeting window is invalid", err)
		}
		meetings = append(meetings, w)
	}
	return meetings, rows.Err()
}

func (r *SectionRepository) loadPrerequisites(ctx context.Context, sectionID uuid.UUID) ([]section.Prerequisite, error) {
	rows, err := r.db.Query(ctx,
		`SELECT required_section_id, min_grade, strict FROM section_prerequisites WHERE section_id = $1`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to load section prerequisites", err)
	}
	defer rows.Close()

	var prerequisites []section.Prerequisite
	for rows.Next() {
		var (
			requiredID pgtype.UUID
			minGrade   pgtype.Float8
			strict     bool
		)
		if err := rows.Scan(&requiredID, &minGrade, &strict); err != nil {
			return nil, classifyErr("failed to scan section prerequisite", err)
		}
		p := section.Prerequisite{
			RequiredSectionID: uuid.UUID(requiredID.Bytes),
			Strict:            strict,
		}
		if minGrade.Valid {
			g := minGrade.Float64
			p.MinGrade = &g
		}
		prerequisites = append(prerequisites, p)
	}
	return prerequisites, rows.Err()
}

func (r *SectionRepository) loadRestrictions(ctx context.Context, sectionID uuid.UUID) ([]section.Restriction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, kind, rule, overridable FROM section_restrictions WHERE section_id = $1`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to load section restrictions", err)
	}
	defer rows.Close()

	var restrictions []section.Restriction
	for rows.Next() {
		var (
			id          pgtype.UUID
			kind        string
			rule        string
			overridable bool
		)
		if err := rows.Scan(&id, &kind, &rule, &overridable); err != nil {
			return nil, classifyErr("failed to scan section restriction", err)
		}
		restrictions = append(restrictions, section.Restriction{
			ID:          uuid.UUID(id.Bytes),
			Kind:        kind,
			Rule:        rule,
			Overridable: overridable,
		})
	}
	return restrictions, rows.Err()
}

// Save writes the counters back with a version check, so a stale aggregate
// never silently overwrites a newer row even outside the row lock.
func (r *SectionRepository) Save(ctx context.Context, s *section.Section) error {
	var wlCap pgtype.Int4
	if s.WaitlistCapacity() != nil {
		v := int32(*s.WaitlistCapacity())
		wlCap = pgtype.Int4{Int32: v, Valid: true}
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE sections
		 SET capacity = $2, enrolled = $3, waitlist_capacity = $4,
		     requires_approval = $5, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $6`,
		pgconv.UUIDToPgtype(s.ID()), s.Capacity(), s.Enrolled(), wlCap,
		s.RequiresApproval(), s.Version(),
	)
	if err != nil {
		return classifyErr("failed to save section", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "section version changed concurrently", nil)
	}
	return nil
}

func (r *SectionRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM sections ORDER BY created_at`)
	if err != nil {
		return nil, classifyErr("failed to list section ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, classifyErr("failed to scan section id", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	return ids, rows.Err()
}
