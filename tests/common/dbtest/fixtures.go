//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestActor(t *testing.T, db DBLike, cohort string) uuid.UUID {
	t.Helper()

	actorID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO actors (id, cohort) VALUES ($1, $2)", actorID, cohort)
	require.NoError(t, err)

	return actorID
}

// CreateTestCompletion records a finished section for the actor; pass a nil
// grade for ungraded completions.
func CreateTestCompletion(t *testing.T, db DBLike, actorID, sectionID uuid.UUID, grade *float64) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO completions (actor_id, section_id, grade) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		actorID, sectionID, grade)
	require.NoError(t, err)
}

func CreateTestSection(t *testing.T, db DBLike, name string, capacity, enrolled int) uuid.UUID {
	t.Helper()

	sectionID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO sections (id, name, capacity, enrolled, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())",
		sectionID, name, capacity, enrolled)
	require.NoError(t, err)

	return sectionID
}

func SetWaitlistCapacity(t *testing.T, db DBLike, sectionID uuid.UUID, capacity int) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "UPDATE sections SET waitlist_capacity = $1 WHERE id = $2", capacity, sectionID)
	require.NoError(t, err)
}

func RequireApproval(t *testing.T, db DBLike, sectionID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, "UPDATE sections SET requires_approval = true WHERE id = $1", sectionID)
	require.NoError(t, err)
}

func AddPrerequisite(t *testing.T, db DBLike, sectionID, requiredID uuid.UUID, minGrade *float64, strict bool) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO section_prerequisites (section_id, required_section_id, min_grade, strict) VALUES ($1, $2, $3, $4)",
		sectionID, requiredID, minGrade, strict)
	require.NoError(t, err)
}

func AddRestriction(t *testing.T, db DBLike, sectionID uuid.UUID, kind, rule string, overridable bool) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO section_restrictions (id, section_id, kind, rule, overridable) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), sectionID, kind, rule, overridable)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
