//go:build unit

package section_test

import (
	"testing"
	"time"

	"enrollment-core/internal/domain/section"
	"enrollment-core/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSection(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := section.NewSection("Databases", 30, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 30, s.Capacity())
		assert.Equal(t, 0, s.Enrolled())
	})

	t.Run("zero and negative capacity rejected", func(t *testing.T) {
		for _, capacity := range []int{0, -1} {
			_, err := section.NewSection("Databases", capacity, nil, false)
			assert.ErrorIs(t, err, section.ErrInvalidCapacity)
		}
	})

	t.Run("negative waitlist capacity rejected", func(t *testing.T) {
		n := -1
		_, err := section.NewSection("Databases", 30, &n, false)
		assert.ErrorIs(t, err, section.ErrInvalidCapacity)
	})
}

func TestReserveRelease(t *testing.T) {
	t.Run("reserve up to capacity then full", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(2, 0).BuildDomain()

		require.NoError(t, s.Reserve())
		require.NoError(t, s.Reserve())
		assert.ErrorIs(t, s.Reserve(), section.ErrSectionFull)
		assert.Equal(t, 2, s.Enrolled())
	})

	t.Run("release frees a seat", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(2, 2).BuildDomain()

		require.NoError(t, s.Release())
		assert.True(t, s.HasOpenSeat())
	})

	t.Run("release with no seats held is rejected", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(2, 0).BuildDomain()
		assert.ErrorIs(t, s.Release(), section.ErrNoSeatsHeld)
	})
}

func TestChangeCapacity(t *testing.T) {
	t.Run("growth is always allowed", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(10, 10).BuildDomain()
		require.NoError(t, s.ChangeCapacity(12))
		assert.True(t, s.HasOpenSeat())
	})

	t.Run("shrink to the enrolled count is allowed", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(10, 7).BuildDomain()
		require.NoError(t, s.ChangeCapacity(7))
		assert.False(t, s.HasOpenSeat())
	})

	t.Run("shrink below the enrolled count is rejected", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(10, 7).BuildDomain()
		assert.ErrorIs(t, s.ChangeCapacity(6), section.ErrCapacityBelowEnrolled)
		assert.Equal(t, 10, s.Capacity())
	})

	t.Run("non-positive capacity is rejected", func(t *testing.T) {
		s := builder.NewSectionBuilder().BuildDomain()
		assert.ErrorIs(t, s.ChangeCapacity(0), section.ErrInvalidCapacity)
	})
}

func TestWaitlistOpen(t *testing.T) {
	t.Run("nil capacity means unbounded", func(t *testing.T) {
		s := builder.NewSectionBuilder().BuildDomain()
		assert.True(t, s.WaitlistOpen(10_000))
	})

	t.Run("bounded capacity closes when reached", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithWaitlistCapacity(3).BuildDomain()
		assert.True(t, s.WaitlistOpen(2))
		assert.False(t, s.WaitlistOpen(3))
	})
}

func TestCheckInvariant(t *testing.T) {
	t.Run("full section is fine", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(5, 5).BuildDomain()
		assert.NoError(t, s.CheckInvariant())
	})

	t.Run("overbooked section is flagged", func(t *testing.T) {
		s := builder.NewSectionBuilder().WithCapacity(5, 6).BuildDomain()
		assert.ErrorIs(t, s.CheckInvariant(), section.ErrOverbooked)
	})
}

func TestMeetingWindow(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		_, err := section.NewMeetingWindow(time.Monday, 600, 540)
		assert.Error(t, err)

		_, err = section.NewMeetingWindow(time.Monday, -10, 60)
		assert.Error(t, err)

		_, err = section.NewMeetingWindow(time.Monday, 1400, 1500)
		assert.Error(t, err)
	})

	t.Run("overlap rules", func(t *testing.T) {
		mon9to11, err := section.NewMeetingWindow(time.Monday, 540, 660)
		require.NoError(t, err)
		mon10to12, err := section.NewMeetingWindow(time.Monday, 600, 720)
		require.NoError(t, err)
		mon11to12, err := section.NewMeetingWindow(time.Monday, 660, 720)
		require.NoError(t, err)
		tue9to11, err := section.NewMeetingWindow(time.Tuesday, 540, 660)
		require.NoError(t, err)

		assert.True(t, mon9to11.Overlaps(mon10to12))
		// Back-to-back slots do not overlap.
		assert.False(t, mon9to11.Overlaps(mon11to12))
		assert.False(t, mon9to11.Overlaps(tue9to11))
	})
}

func TestOverlapsSchedule(t *testing.T) {
	a := builder.NewSectionBuilder().WithMeeting(time.Monday, 540, 660).BuildDomain()
	b := builder.NewSectionBuilder().WithMeeting(time.Monday, 600, 720).BuildDomain()
	c := builder.NewSectionBuilder().WithMeeting(time.Friday, 540, 660).BuildDomain()

	assert.True(t, a.OverlapsSchedule(b))
	assert.False(t, a.OverlapsSchedule(c))
}

func TestPrerequisiteSatisfied(t *testing.T) {
	grade := func(g float64) *float64 { return &g }

	t.Run("no minimum grade", func(t *testing.T) {
		p := section.Prerequisite{}
		assert.True(t, p.Satisfied(nil))
		assert.True(t, p.Satisfied(grade(1.0)))
	})

	t.Run("minimum grade", func(t *testing.T) {
		p := section.Prerequisite{MinGrade: grade(2.5)}
		assert.True(t, p.Satisfied(grade(2.5)))
		assert.True(t, p.Satisfied(grade(3.9)))
		assert.False(t, p.Satisfied(grade(2.4)))
		// Ungraded completion cannot satisfy a minimum.
		assert.False(t, p.Satisfied(nil))
	})
}
