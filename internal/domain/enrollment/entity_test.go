//go:build unit

package enrollment_test

import (
	"testing"
	"time"

	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to enrollment.Status
		allowed  bool
	}{
		{enrollment.StatusRequested, enrollment.StatusEnrolled, true},
		{enrollment.StatusRequested, enrollment.StatusWaitlisted, true},
		{enrollment.StatusRequested, enrollment.StatusDenied, true},
		{enrollment.StatusRequested, enrollment.StatusWithdrawn, false},
		{enrollment.StatusEnrolled, enrollment.StatusWithdrawn, true},
		{enrollment.StatusEnrolled, enrollment.StatusWaitlisted, false},
		{enrollment.StatusEnrolled, enrollment.StatusDenied, false},
		{enrollment.StatusWaitlisted, enrollment.StatusEnrolled, true},
		{enrollment.StatusWaitlisted, enrollment.StatusWithdrawn, true},
		{enrollment.StatusWaitlisted, enrollment.StatusDenied, false},
		{enrollment.StatusWithdrawn, enrollment.StatusEnrolled, false},
		{enrollment.StatusDenied, enrollment.StatusEnrolled, false},
	}

	for _, c := range cases {
		t.Run(string(c.from)+" -> "+string(c.to), func(t *testing.T) {
			assert.Equal(t, c.allowed, enrollment.CanTransition(c.from, c.to))
		})
	}
}

func TestEnroll(t *testing.T) {
	now := time.Now()

	t.Run("from requested stamps enrolled and decided", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().BuildDomain()

		require.NoError(t, e.Enroll(now))
		assert.Equal(t, enrollment.StatusEnrolled, e.Status())
		require.NotNil(t, e.EnrolledAt())
		require.NotNil(t, e.DecidedAt())
	})

	t.Run("waitlist promotion keeps the original decision stamp", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().BuildDomain()
		require.NoError(t, e.Waitlist(now))
		decided := e.DecidedAt()
		require.NotNil(t, decided)

		later := now.Add(time.Hour)
		require.NoError(t, e.Enroll(later))

		assert.Equal(t, enrollment.StatusEnrolled, e.Status())
		assert.Equal(t, decided, e.DecidedAt())
		require.NotNil(t, e.EnrolledAt())
		assert.Equal(t, later, *e.EnrolledAt())
	})

	t.Run("from withdrawn is rejected", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().WithStatus(enrollment.StatusWithdrawn).BuildDomain()
		assert.ErrorIs(t, e.Enroll(now), enrollment.ErrInvalidTransition)
	})
}

func TestDeny(t *testing.T) {
	now := time.Now()
	reviewer := uuid.New()

	t.Run("records reviewer and reason", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().BuildDomain()

		require.NoError(t, e.Deny(reviewer, "quota exhausted", now))
		assert.Equal(t, enrollment.StatusDenied, e.Status())
		require.NotNil(t, e.DecidedBy())
		assert.Equal(t, reviewer, *e.DecidedBy())
		require.NotNil(t, e.DenialReason())
		assert.Equal(t, "quota exhausted", *e.DenialReason())
	})

	t.Run("denying an enrolled record is rejected", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().WithStatus(enrollment.StatusEnrolled).BuildDomain()
		assert.ErrorIs(t, e.Deny(reviewer, "too late", now), enrollment.ErrInvalidTransition)
	})
}

func TestWithdraw(t *testing.T) {
	now := time.Now()

	t.Run("from enrolled", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().WithStatus(enrollment.StatusEnrolled).BuildDomain()

		require.NoError(t, e.Withdraw(now))
		assert.Equal(t, enrollment.StatusWithdrawn, e.Status())
		require.NotNil(t, e.WithdrawnAt())
	})

	t.Run("from waitlisted", func(t *testing.T) {
		e := builder.NewEnrollmentBuilder().WithStatus(enrollment.StatusWaitlisted).BuildDomain()
		require.NoError(t, e.Withdraw(now))
	})

	t.Run("terminal statuses stay terminal", func(t *testing.T) {
		for _, s := range []enrollment.Status{enrollment.StatusWithdrawn, enrollment.StatusDenied} {
			e := builder.NewEnrollmentBuilder().WithStatus(s).BuildDomain()
			assert.ErrorIs(t, e.Withdraw(now), enrollment.ErrInvalidTransition)
		}
	})
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, enrollment.StatusEnrolled.IsActive())
	assert.True(t, enrollment.StatusWaitlisted.IsActive())
	assert.False(t, enrollment.StatusRequested.IsActive())

	assert.True(t, enrollment.StatusWithdrawn.IsTerminal())
	assert.True(t, enrollment.StatusDenied.IsTerminal())
	assert.False(t, enrollment.StatusEnrolled.IsTerminal())

	assert.False(t, enrollment.Status("unknown").IsValid())
}
