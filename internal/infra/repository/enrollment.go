package repository

import (
	"context"

	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/pgconv"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type EnrollmentRepository struct {
	db DBTX
}

func NewEnrollmentRepository(db DBTX) shared.EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `id, actor_id, section_id, status, justification,
	requested_at, decided_at, enrolled_at, withdrawn_at, decided_by, denial_reason, updated_at`

func (r *EnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (`+enrollmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		pgconv.UUIDToPgtype(e.ID()),
		pgconv.UUIDToPgtype(e.ActorID()),
		pgconv.UUIDToPgtype(e.SectionID()),
		string(e.Status()),
		pgconv.StringPtrToPgtype(e.Justification()),
		pgconv.TimeToPgtype(e.RequestedAt()),
		pgconv.TimePtrToPgtype(e.DecidedAt()),
		pgconv.TimePtrToPgtype(e.EnrolledAt()),
		pgconv.TimePtrToPgtype(e.WithdrawnAt()),
		pgconv.UUIDPtrToPgtype(e.DecidedBy()),
		pgconv.StringPtrToPgtype(e.DenialReason()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	return classifyErr("failed to create enrollment", err)
}

func (r *EnrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE enrollments
		 SET status = $2, decided_at = $3, enrolled_at = $4, withdrawn_at = $5,
		     decided_by = $6, denial_reason = $7, updated_at = $8
		 WHERE id = $1`,
		pgconv.UUIDToPgtype(e.ID()),
		string(e.Status()),
		pgconv.TimePtrToPgtype(e.DecidedAt()),
		pgconv.TimePtrToPgtype(e.EnrolledAt()),
		pgconv.TimePtrToPgtype(e.WithdrawnAt()),
		pgconv.UUIDPtrToPgtype(e.DecidedBy()),
		pgconv.StringPtrToPgtype(e.DenialReason()),
		pgconv.TimeToPgtype(e.UpdatedAt()),
	)
	if err != nil {
		return classifyErr("failed to update enrollment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "enrollment not found", nil)
	}
	return nil
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)
	return scanEnrollment(row)
}

func (r *EnrollmentRepository) FindActiveByActorAndSection(ctx context.Context, actorID, sectionID uuid.UUID) (*enrollment.Enrollment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE actor_id = $1 AND section_id = $2
		   AND status IN ('requested', 'enrolled', 'waitlisted')`,
		pgconv.UUIDToPgtype(actorID), pgconv.UUIDToPgtype(sectionID),
	)
	return scanEnrollment(row)
}

func (r *EnrollmentRepository) ListActiveByActor(ctx context.Context, actorID uuid.UUID) ([]*enrollment.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE actor_id = $1 AND status IN ('requested', 'enrolled', 'waitlisted')
		 ORDER BY requested_at`,
		pgconv.UUIDToPgtype(actorID),
	)
	if err != nil {
		return nil, classifyErr("failed to list enrollments by actor", err)
	}
	return scanEnrollments(rows)
}

func (r *EnrollmentRepository) ListActiveBySection(ctx context.Context, sectionID uuid.UUID) ([]*enrollment.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE section_id = $1 AND status IN ('requested', 'enrolled', 'waitlisted')
		 ORDER BY requested_at`,
		pgconv.UUIDToPgtype(sectionID),
	)
	if err != nil {
		return nil, classifyErr("failed to list enrollments by section", err)
	}
	return scanEnrollments(rows)
}

func scanEnrollment(row pgx.Row) (*enrollment.Enrollment, error) {
	var (
		id, actorID, sectionID              pgtype.UUID
		status                              string
		justification, denialReason         pgtype.Text
		requestedAt, updatedAt              pgtype.Timestamptz
		decidedAt, enrolledAt, withdrawnAt  pgtype.Timestamptz
		decidedBy                           pgtype.UUID
	)
	err := row.Scan(
		&id, &actorID, &sectionID, &status, &justification,
		&requestedAt, &decidedAt, &enrolledAt, &withdrawnAt,
		&decidedBy, &denialReason, &updatedAt,
	)
	if err != nil {
		return nil, classifyErr("failed to find enrollment", err)
	}
	return enrollment.ReconstructEnrollment(
		uuid.UUID(id.Bytes), uuid.UUID(actorID.Bytes), uuid.UUID(sectionID.Bytes),
		enrollment.Status(status),
		pgconv.StringPtrFromPgtype(justification),
		pgconv.TimeFromPgtype(requestedAt),
		pgconv.TimePtrFromPgtype(decidedAt),
		pgconv.TimePtrFromPgtype(enrolledAt),
		pgconv.TimePtrFromPgtype(withdrawnAt),
		pgconv.UUIDPtrFromPgtype(decidedBy),
		pgconv.StringPtrFromPgtype(denialReason),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func scanEnrollments(rows pgx.Rows) ([]*enrollment.Enrollment, error) {
	defer rows.Close()
	var records []*enrollment.Enrollment
	for rows.Next() {
		rec, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
