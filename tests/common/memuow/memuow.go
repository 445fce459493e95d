//go:build unit

// Package memuow provides an in-memory shared.UnitOfWork for command tests.
// It mirrors the repository error kinds and ordering guarantees of the
// Postgres implementation but applies mutations immediately: there is no
// rollback, so tests asserting failures should not also assert state.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/ratelimit"
	"enrollment-core/internal/domain/section"
	"enrollment-core/internal/domain/waitlist"
	"enrollment-core/internal/infra"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	// mu serializes Within calls, a coarse stand-in for the per-section
	// row lock the Postgres implementation takes. Concurrency tests rely
	// on it the way production code relies on FindByIDForUpdate.
	mu sync.Mutex

	Sections    map[uuid.UUID]*section.Section
	Enrollments map[uuid.UUID]*enrollment.Enrollment
	Entries     map[uuid.UUID]*waitlist.Entry
	Conflicts   map[uuid.UUID]*conflict.Conflict
	Actors      map[uuid.UUID]*shared.ActorSnapshot

	// Events collects outbox topics in append order.
	Events []Event
}

type Event struct {
	Topic   string
	Payload []byte
}

func New() *Store {
	return &Store{
		Sections:    map[uuid.UUID]*section.Section{},
		Enrollments: map[uuid.UUID]*enrollment.Enrollment{},
		Entries:     map[uuid.UUID]*waitlist.Entry{},
		Conflicts:   map[uuid.UUID]*conflict.Conflict{},
		Actors:      map[uuid.UUID]*shared.ActorSnapshot{},
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &tx{store: s})
}

// Topics returns the emitted outbox topics in order.
func (s *Store) Topics() []string {
	topics := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		topics = append(topics, e.Topic)
	}
	return topics
}

func (s *Store) AddSection(sec *section.Section)          { s.Sections[sec.ID()] = sec }
func (s *Store) AddEnrollment(e *enrollment.Enrollment)   { s.Enrollments[e.ID()] = e }
func (s *Store) AddEntry(e *waitlist.Entry)               { s.Entries[e.ID()] = e }
func (s *Store) AddConflict(c *conflict.Conflict)         { s.Conflicts[c.ID()] = c }
func (s *Store) AddActor(a *shared.ActorSnapshot)         { s.Actors[a.ID] = a }

type tx struct {
	store *Store
}

func (t *tx) Sections() shared.SectionRepository       { return &sectionRepo{t.store} }
func (t *tx) Enrollments() shared.EnrollmentRepository { return &enrollmentRepo{t.store} }
func (t *tx) Waitlist() shared.WaitlistRepository      { return &waitlistRepo{t.store} }
func (t *tx) Conflicts() shared.ConflictRepository     { return &conflictRepo{t.store} }
func (t *tx) Actors() shared.ActorRepository           { return &actorRepo{t.store} }
func (t *tx) Outbox() shared.OutboxRepository          { return &outboxRepo{t.store} }

func notFound(msg string) error {
	return infra.NewRepoErr(infra.KindNotFound, msg, nil)
}

type sectionRepo struct{ store *Store }

func (r *sectionRepo) FindByID(_ context.Context, id uuid.UUID) (*section.Section, error) {
	sec, ok := r.store.Sections[id]
	if !ok {
		return nil, notFound("section not found")
	}
	return sec, nil
}

func (r *sectionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*section.Section, error) {
	return r.FindByID(ctx, id)
}

func (r *sectionRepo) Save(_ context.Context, s *section.Section) error {
	r.store.Sections[s.ID()] = s
	return nil
}

func (r *sectionRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(r.store.Sections))
	for id := range r.store.Sections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

type enrollmentRepo struct{ store *Store }

func (r *enrollmentRepo) Create(_ context.Context, e *enrollment.Enrollment) error {
	r.store.Enrollments[e.ID()] = e
	return nil
}

func (r *enrollmentRepo) Update(_ context.Context, e *enrollment.Enrollment) error {
	if _, ok := r.store.Enrollments[e.ID()]; !ok {
		return notFound("enrollment not found")
	}
	r.store.Enrollments[e.ID()] = e
	return nil
}

func (r *enrollmentRepo) FindByID(_ context.Context, id uuid.UUID) (*enrollment.Enrollment, error) {
	e, ok := r.store.Enrollments[id]
	if !ok {
		return nil, notFound("enrollment not found")
	}
	return e, nil
}

func (r *enrollmentRepo) FindActiveByActorAndSection(_ context.Context, actorID, sectionID uuid.UUID) (*enrollment.Enrollment, error) {
	for _, e := range r.store.Enrollments {
		if e.ActorID() == actorID && e.SectionID() == sectionID && !e.Status().IsTerminal() {
			return e, nil
		}
	}
	return nil, notFound("no active enrollment for pair")
}

func (r *enrollmentRepo) ListActiveByActor(_ context.Context, actorID uuid.UUID) ([]*enrollment.Enrollment, error) {
	var out []*enrollment.Enrollment
	for _, e := range r.store.Enrollments {
		if e.ActorID() == actorID && !e.Status().IsTerminal() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt().Before(out[j].RequestedAt()) })
	return out, nil
}

func (r *enrollmentRepo) ListActiveBySection(_ context.Context, sectionID uuid.UUID) ([]*enrollment.Enrollment, error) {
	var out []*enrollment.Enrollment
	for _, e := range r.store.Enrollments {
		if e.SectionID() == sectionID && !e.Status().IsTerminal() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt().Before(out[j].RequestedAt()) })
	return out, nil
}

type waitlistRepo struct{ store *Store }

func (r *waitlistRepo) Create(_ context.Context, e *waitlist.Entry) error {
	r.store.Entries[e.ID()] = e
	return nil
}

func (r *waitlistRepo) Update(_ context.Context, e *waitlist.Entry) error {
	if _, ok := r.store.Entries[e.ID()]; !ok {
		return notFound("waitlist entry not found")
	}
	r.store.Entries[e.ID()] = e
	return nil
}

func (r *waitlistRepo) FindActiveByActorAndSection(_ context.Context, actorID, sectionID uuid.UUID) (*waitlist.Entry, error) {
	for _, e := range r.store.Entries {
		if e.ActorID() == actorID && e.SectionID() == sectionID && e.IsActive() {
			return e, nil
		}
	}
	return nil, notFound("no active waitlist entry for pair")
}

func (r *waitlistRepo) ListActiveBySection(_ context.Context, sectionID uuid.UUID) ([]*waitlist.Entry, error) {
	var out []*waitlist.Entry
	for _, e := range r.store.Entries {
		if e.SectionID() == sectionID && e.IsActive() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r *waitlistRepo) FindOffered(_ context.Context, sectionID uuid.UUID) (*waitlist.Entry, error) {
	for _, e := range r.store.Entries {
		if e.SectionID() == sectionID && e.IsActive() && e.OfferState() == waitlist.OfferExtended {
			return e, nil
		}
	}
	return nil, notFound("no outstanding offer")
}

func (r *waitlistRepo) CountActive(_ context.Context, sectionID uuid.UUID) (int, error) {
	n := 0
	for _, e := range r.store.Entries {
		if e.SectionID() == sectionID && e.IsActive() {
			n++
		}
	}
	return n, nil
}

type conflictRepo struct{ store *Store }

func (r *conflictRepo) Create(_ context.Context, c *conflict.Conflict) error {
	r.store.Conflicts[c.ID()] = c
	return nil
}

func (r *conflictRepo) Update(_ context.Context, c *conflict.Conflict) error {
	if _, ok := r.store.Conflicts[c.ID()]; !ok {
		return notFound("conflict not found")
	}
	r.store.Conflicts[c.ID()] = c
	return nil
}

func (r *conflictRepo) FindByID(_ context.Context, id uuid.UUID) (*conflict.Conflict, error) {
	c, ok := r.store.Conflicts[id]
	if !ok {
		return nil, notFound("conflict not found")
	}
	return c, nil
}

func (r *conflictRepo) ListOpenBySection(_ context.Context, sectionID uuid.UUID) ([]*conflict.Conflict, error) {
	var out []*conflict.Conflict
	for _, c := range r.store.Conflicts {
		if c.SectionID() == sectionID && c.IsOpen() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt().Before(out[j].DetectedAt()) })
	return out, nil
}

func (r *conflictRepo) ListOpenByActor(_ context.Context, actorID uuid.UUID) ([]*conflict.Conflict, error) {
	var out []*conflict.Conflict
	for _, c := range r.store.Conflicts {
		if c.ActorID() == actorID && c.IsOpen() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt().Before(out[j].DetectedAt()) })
	return out, nil
}

type actorRepo struct{ store *Store }

func (r *actorRepo) Snapshot(_ context.Context, actorID uuid.UUID) (*shared.ActorSnapshot, error) {
	a, ok := r.store.Actors[actorID]
	if !ok {
		return nil, notFound("actor not found")
	}
	return a, nil
}

type outboxRepo struct{ store *Store }

func (r *outboxRepo) Append(_ context.Context, topic string, payload []byte, _ time.Time) error {
	r.store.Events = append(r.store.Events, Event{Topic: topic, Payload: payload})
	return nil
}

// RateLimitStore is the in-memory counterpart of the Postgres window store.
type RateLimitStore struct {
	mu sync.Mutex

	Windows  map[string]ratelimit.Window
	Attempts []ratelimit.Attempt

	// FailWith, when set, makes every call return the error so fail-open
	// and fail-closed paths can be exercised.
	FailWith error
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{Windows: map[string]ratelimit.Window{}}
}

func (s *RateLimitStore) Find(_ context.Context, key string) (*ratelimit.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	w, ok := s.Windows[key]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s *RateLimitStore) Save(_ context.Context, w ratelimit.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.Windows[w.Key] = w
	return nil
}

func (s *RateLimitStore) RecordAttempt(_ context.Context, a ratelimit.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.Attempts = append(s.Attempts, a)
	return nil
}

func (s *RateLimitStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	var n int64
	for key, w := range s.Windows {
		if w.WindowStart.Before(cutoff) {
			delete(s.Windows, key)
			n++
		}
	}
	return n, nil
}
