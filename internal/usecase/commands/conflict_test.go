//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/tests/common/builder"
	"enrollment-core/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type ConflictCommandsTestSuite struct {
	suite.Suite
	store    *memuow.Store
	clock    *clock.MockClock
	commands commands.ConflictCommands
}

func (s *ConflictCommandsTestSuite) SetupTest() {
	s.store = memuow.New()
	s.clock = clock.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	cfg := config.NewTestConfig()
	gate := commands.NewGate(memuow.NewRateLimitStore(), cfg.RateLimit, s.clock)
	s.commands = commands.NewConflictCommands(s.store, gate, s.clock, cfg.Waitlist)
}

func TestConflictCommandsSuite(t *testing.T) {
	suite.Run(t, new(ConflictCommandsTestSuite))
}

func (s *ConflictCommandsTestSuite) TestDetect() {
	ctx := context.Background()

	s.Run("overbooked section raises a capacity finding", func() {
		s.SetupTest()
		sec := builder.NewSectionBuilder().WithCapacity(5, 6).BuildDomain()
		s.store.AddSection(sec)

		report, err := s.commands.Detect(ctx, sec.ID())
		s.Require().NoError(err)
		s.Equal(1, report.Found)

		conflicts := s.openConflicts(sec.ID())
		s.Require().Len(conflicts, 1)
		s.Equal(conflict.KindCapacityOverbook, conflicts[0].Kind())
	})

	s.Run("record violating a rule added after admission is found", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().WithCohort("2027").BuildSnapshot()
		s.store.AddActor(actor)
		// The restriction landed after the actor was admitted.
		sec := builder.NewSectionBuilder().
			WithCapacity(5, 1).
			WithRestriction("cohort", "2026", true).
			BuildDomain()
		s.store.AddSection(sec)
		rec := builder.NewEnrollmentBuilder().
			WithPair(actor.ID, sec.ID()).
			WithStatus(enrollment.StatusEnrolled).
			BuildDomain()
		s.store.AddEnrollment(rec)

		report, err := s.commands.Detect(ctx, sec.ID())
		s.Require().NoError(err)
		s.Equal(1, report.Scanned)
		s.Equal(1, report.Found)
	})

	s.Run("nil section scans every section and aggregates counts", func() {
		s.SetupTest()
		first := builder.NewSectionBuilder().WithCapacity(5, 6).BuildDomain()
		second := builder.NewSectionBuilder().WithCapacity(3, 4).BuildDomain()
		s.store.AddSection(first)
		s.store.AddSection(second)

		report, err := s.commands.Detect(ctx, uuid.Nil)
		s.Require().NoError(err)
		s.Equal(2, report.Found)
		s.Len(s.openConflicts(first.ID()), 1)
		s.Len(s.openConflicts(second.ID()), 1)
	})

	s.Run("overlap spanning two sections is recorded once", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().BuildSnapshot()
		s.store.AddActor(actor)
		first := builder.NewSectionBuilder().
			WithCapacity(5, 1).
			WithMeeting(time.Monday, 9*60, 10*60).
			BuildDomain()
		second := builder.NewSectionBuilder().
			WithCapacity(5, 1).
			WithMeeting(time.Monday, 9*60+30, 10*60+30).
			BuildDomain()
		s.store.AddSection(first)
		s.store.AddSection(second)
		for _, sec := range []uuid.UUID{first.ID(), second.ID()} {
			s.store.AddEnrollment(builder.NewEnrollmentBuilder().
				WithPair(actor.ID, sec).
				WithStatus(enrollment.StatusEnrolled).
				BuildDomain())
		}

		report, err := s.commands.Detect(ctx, uuid.Nil)
		s.Require().NoError(err)
		s.Equal(1, report.Found, "the second section's scan sees the mirror of the same overlap")
		s.Len(append(s.openConflicts(first.ID()), s.openConflicts(second.ID())...), 1)
	})

	s.Run("rescanning does not duplicate open findings", func() {
		s.SetupTest()
		sec := builder.NewSectionBuilder().WithCapacity(5, 6).BuildDomain()
		s.store.AddSection(sec)

		_, err := s.commands.Detect(ctx, sec.ID())
		s.Require().NoError(err)
		report, err := s.commands.Detect(ctx, sec.ID())
		s.Require().NoError(err)

		s.Zero(report.Found)
		conflicts := s.openConflicts(sec.ID())
		s.Len(conflicts, 1)
	})

	s.Run("clean section reports nothing", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().BuildSnapshot()
		s.store.AddActor(actor)
		sec := builder.NewSectionBuilder().WithCapacity(5, 1).BuildDomain()
		s.store.AddSection(sec)
		s.store.AddEnrollment(builder.NewEnrollmentBuilder().
			WithPair(actor.ID, sec.ID()).
			WithStatus(enrollment.StatusEnrolled).
			BuildDomain())

		report, err := s.commands.Detect(ctx, sec.ID())
		s.Require().NoError(err)
		s.Equal(1, report.Scanned)
		s.Zero(report.Found)
	})
}

func (s *ConflictCommandsTestSuite) TestResolve() {
	ctx := context.Background()
	resolver := uuid.New()

	s.Run("auto-drop withdraws the offending record and frees the seat", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().BuildSnapshot()
		s.store.AddActor(actor)
		sec := builder.NewSectionBuilder().WithCapacity(5, 1).BuildDomain()
		s.store.AddSection(sec)
		rec := builder.NewEnrollmentBuilder().
			WithPair(actor.ID, sec.ID()).
			WithStatus(enrollment.StatusEnrolled).
			BuildDomain()
		s.store.AddEnrollment(rec)

		cn := conflict.NewConflict(
			conflict.KindRestrictionViolation, actor.ID, sec.ID(),
			rec.ID(), uuid.New(), true, "cohort rule violated", s.clock.Now())
		s.store.AddConflict(cn)

		err := s.commands.Resolve(ctx, cn.ID(), conflict.StrategyAutoDropLowerPriority, resolver, "10.0.0.1")
		s.Require().NoError(err)

		s.False(cn.IsOpen())
		s.Equal(enrollment.StatusWithdrawn, rec.Status())
		s.Equal(0, sec.Enrolled())
		s.Contains(s.store.Topics(), commands.TopicConflictResolved)
	})

	s.Run("deny-and-notify denies a pending request", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().BuildSnapshot()
		s.store.AddActor(actor)
		sec := builder.NewSectionBuilder().WithCapacity(5, 0).BuildDomain()
		s.store.AddSection(sec)
		rec := builder.NewEnrollmentBuilder().
			WithPair(actor.ID, sec.ID()).
			BuildDomain()
		s.store.AddEnrollment(rec)

		cn := conflict.NewConflict(
			conflict.KindPrerequisiteViolation, actor.ID, sec.ID(),
			rec.ID(), uuid.New(), true, "grade below minimum", s.clock.Now())
		s.store.AddConflict(cn)

		err := s.commands.Resolve(ctx, cn.ID(), conflict.StrategyDenyAndNotify, resolver, "10.0.0.1")
		s.Require().NoError(err)

		s.Equal(enrollment.StatusDenied, rec.Status())
		s.Contains(s.store.Topics(), commands.TopicRequestDenied)
	})

	s.Run("manual override leaves records standing", func() {
		s.SetupTest()
		actor := builder.NewActorBuilder().BuildSnapshot()
		sec := builder.NewSectionBuilder().WithCapacity(5, 1).BuildDomain()
		s.store.AddSection(sec)
		rec := builder.NewEnrollmentBuilder().
			WithPair(actor.ID, sec.ID()).
			WithStatus(enrollment.StatusEnrolled).
			BuildDomain()
		s.store.AddEnrollment(rec)

		cn := conflict.NewConflict(
			conflict.KindScheduleOverlap, actor.ID, sec.ID(),
			rec.ID(), uuid.New(), true, "meeting overlap", s.clock.Now())
		s.store.AddConflict(cn)

		err := s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, resolver, "10.0.0.1")
		s.Require().NoError(err)

		s.Equal(enrollment.StatusEnrolled, rec.Status())
		s.Equal(1, sec.Enrolled())
		s.False(cn.IsOpen())
	})

	s.Run("override on a non-overridable conflict is rejected", func() {
		s.SetupTest()
		cn := conflict.NewConflict(
			conflict.KindDuplicateEnrollment, uuid.New(), uuid.New(),
			uuid.New(), uuid.New(), false, "duplicate", s.clock.Now())
		s.store.AddConflict(cn)

		err := s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, resolver, "10.0.0.1")
		s.ErrorIs(err, errs.ErrInvalidTransition)
		s.True(cn.IsOpen())
	})

	s.Run("resolving twice is rejected", func() {
		s.SetupTest()
		cn := conflict.NewConflict(
			conflict.KindScheduleOverlap, uuid.New(), uuid.New(),
			uuid.New(), uuid.New(), true, "overlap", s.clock.Now())
		s.store.AddConflict(cn)

		s.Require().NoError(s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, resolver, "10.0.0.1"))
		err := s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, resolver, "10.0.0.1")
		s.ErrorIs(err, errs.ErrInvalidTransition)
	})

	s.Run("unknown conflict is not found", func() {
		s.SetupTest()
		err := s.commands.Resolve(ctx, uuid.New(), conflict.StrategyManualOverride, resolver, "10.0.0.1")
		s.ErrorIs(err, errs.ErrNotFound)
	})
}

func (s *ConflictCommandsTestSuite) TestInvestigate() {
	ctx := context.Background()
	reviewer := uuid.New()

	s.Run("parks an open conflict under review", func() {
		s.SetupTest()
		cn := conflict.NewConflict(
			conflict.KindScheduleOverlap, uuid.New(), uuid.New(),
			uuid.New(), uuid.New(), true, "overlap", s.clock.Now())
		s.store.AddConflict(cn)

		s.Require().NoError(s.commands.Investigate(ctx, cn.ID(), reviewer, "10.0.0.1"))
		s.Equal(conflict.StatusInvestigating, cn.Status())
		s.True(cn.IsOpen())
		s.Contains(s.store.Topics(), commands.TopicConflictInvestigating)
	})

	s.Run("an investigated conflict can still be resolved", func() {
		s.SetupTest()
		cn := conflict.NewConflict(
			conflict.KindScheduleOverlap, uuid.New(), uuid.New(),
			uuid.New(), uuid.New(), true, "overlap", s.clock.Now())
		s.store.AddConflict(cn)

		s.Require().NoError(s.commands.Investigate(ctx, cn.ID(), reviewer, "10.0.0.1"))
		s.Require().NoError(s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, reviewer, "10.0.0.1"))
		s.False(cn.IsOpen())
	})

	s.Run("a resolved conflict cannot reopen as investigating", func() {
		s.SetupTest()
		cn := conflict.NewConflict(
			conflict.KindScheduleOverlap, uuid.New(), uuid.New(),
			uuid.New(), uuid.New(), true, "overlap", s.clock.Now())
		s.store.AddConflict(cn)

		s.Require().NoError(s.commands.Resolve(ctx, cn.ID(), conflict.StrategyManualOverride, reviewer, "10.0.0.1"))
		err := s.commands.Investigate(ctx, cn.ID(), reviewer, "10.0.0.1")
		s.ErrorIs(err, errs.ErrInvalidTransition)
	})

	s.Run("unknown conflict is not found", func() {
		s.SetupTest()
		err := s.commands.Investigate(ctx, uuid.New(), reviewer, "10.0.0.1")
		s.ErrorIs(err, errs.ErrNotFound)
	})
}

func (s *ConflictCommandsTestSuite) openConflicts(sectionID uuid.UUID) []*conflict.Conflict {
	var out []*conflict.Conflict
	for _, c := range s.store.Conflicts {
		if c.SectionID() == sectionID && c.IsOpen() {
			out = append(out, c)
		}
	}
	return out
}
