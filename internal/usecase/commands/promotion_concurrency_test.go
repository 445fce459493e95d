//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/waitlist"
	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/tests/common/builder"
	"enrollment-core/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// PromotionConcurrencyTestSuite exercises the seat ledger under parallel
// withdrawals. The invariant: every freed seat is promoted to exactly one
// queued candidate, no candidate is promoted twice, and at most one offer
// is outstanding per section at any moment.
type PromotionConcurrencyTestSuite struct {
	suite.Suite
	store      *memuow.Store
	clock      *clock.MockClock
	enrollment commands.EnrollmentCommands
	waitlist   commands.WaitlistCommands
}

func (s *PromotionConcurrencyTestSuite) SetupTest() {
	s.store = memuow.New()
	s.clock = clock.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	cfg := config.NewTestConfig()
	gate := commands.NewGate(memuow.NewRateLimitStore(), cfg.RateLimit, s.clock)
	s.enrollment = commands.NewEnrollmentCommands(s.store, gate, s.clock, cfg.Waitlist)
	s.waitlist = commands.NewWaitlistCommands(s.store, gate, s.clock, cfg.Waitlist)
}

func TestPromotionConcurrencySuite(t *testing.T) {
	suite.Run(t, new(PromotionConcurrencyTestSuite))
}

func (s *PromotionConcurrencyTestSuite) newActor() uuid.UUID {
	actor := builder.NewActorBuilder().BuildSnapshot()
	s.store.AddActor(actor)
	return actor.ID
}

// outstandingOffers counts active entries currently holding an offer.
func (s *PromotionConcurrencyTestSuite) outstandingOffers() int {
	n := 0
	for _, e := range s.store.Entries {
		if e.IsActive() && e.OfferState() == waitlist.OfferExtended {
			n++
		}
	}
	return n
}

// offeredActor returns the actor holding the single outstanding offer, or
// uuid.Nil when no offer is in flight.
func (s *PromotionConcurrencyTestSuite) offeredActor() uuid.UUID {
	for _, e := range s.store.Entries {
		if e.IsActive() && e.OfferState() == waitlist.OfferExtended {
			return e.ActorID()
		}
	}
	return uuid.Nil
}

func (s *PromotionConcurrencyTestSuite) TestConcurrentWithdrawsPromoteEachSeatOnce() {
	ctx := context.Background()
	const seats = 4
	const queued = 6

	sec := builder.NewSectionBuilder().WithCapacity(seats, 0).BuildDomain()
	s.store.AddSection(sec)
	sectionID := sec.ID()

	holders := make([]uuid.UUID, 0, seats)
	for range seats {
		actorID := s.newActor()
		result, err := s.enrollment.SubmitRequest(ctx, actorID, sectionID, nil, "10.0.0.1")
		s.Require().NoError(err)
		s.Require().Equal(enrollment.StatusEnrolled, result.Status)
		holders = append(holders, actorID)
	}

	candidates := make(map[uuid.UUID]uuid.UUID, queued)
	for range queued {
		actorID := s.newActor()
		result, err := s.waitlist.Join(ctx, actorID, sectionID, 0, "10.0.0.2")
		s.Require().NoError(err)
		candidates[actorID] = result.EntryID
		s.clock.Add(time.Second)
	}

	// All seat holders walk away at once.
	var wg sync.WaitGroup
	withdrawErrs := make(chan error, seats)
	for _, actorID := range holders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			withdrawErrs <- s.enrollment.Withdraw(ctx, actorID, sectionID, nil, "10.0.0.3")
		}()
	}
	wg.Wait()
	close(withdrawErrs)
	for err := range withdrawErrs {
		s.Require().NoError(err)
	}

	s.Equal(seats, s.store.Sections[sectionID].Capacity()-s.store.Sections[sectionID].Enrolled())
	s.Equal(1, s.outstandingOffers(), "freed seats must never fan out into parallel offers")

	// Drive the offer cycle to completion: each accept consumes a seat and
	// the sweep extends the next offer.
	promoted := map[uuid.UUID]bool{}
	for s.outstandingOffers() > 0 {
		s.Require().Equal(1, s.outstandingOffers())

		actorID := s.offeredActor()
		s.Require().False(promoted[actorID], "candidate offered a second seat")

		result, err := s.waitlist.Respond(ctx, actorID, sectionID, true, "10.0.0.4")
		s.Require().NoError(err)
		s.Require().Equal(enrollment.StatusEnrolled, result.Status)
		promoted[actorID] = true

		_, err = s.waitlist.ProcessSection(ctx, sectionID)
		s.Require().NoError(err)
	}

	// Exactly one promotion per freed seat, nobody promoted twice.
	s.Len(promoted, seats)
	s.Equal(seats, s.store.Sections[sectionID].Enrolled())

	promotions := 0
	for actorID, entryID := range candidates {
		entry := s.store.Entries[entryID]
		if promoted[actorID] {
			s.False(entry.IsActive(), "promoted entry must leave the queue")
			promotions++
		} else {
			s.True(entry.IsActive(), "unpromoted candidate must stay queued")
			s.Equal(waitlist.OfferNone, entry.OfferState())
		}
	}
	s.Equal(seats, promotions)
}
