// Package sweep drives the periodic queue maintenance: expiring lapsed
// offers, extending the next ones, and collecting stale rate-limit windows.
package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/usecase/commands"

	"github.com/google/uuid"
)

// SectionLister enumerates the sections to sweep.
type SectionLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Sweeper struct {
	sections SectionLister
	waitlist commands.WaitlistCommands
	gate     *commands.Gate

	interval  time.Duration
	workers   int
	retention time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(
	sections SectionLister,
	waitlist commands.WaitlistCommands,
	gate *commands.Gate,
	sweepCfg config.SweepConfig,
	rlCfg config.RateLimitConfig,
) *Sweeper {
	workers := sweepCfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Sweeper{
		sections:  sections,
		waitlist:  waitlist,
		gate:      gate,
		interval:  sweepCfg.Interval,
		workers:   workers,
		retention: rlCfg.WindowRetainer,
	}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// runOnce sweeps every section independently. Sections are dispatched to a
// bounded pool of workers so one slow section cannot hold up the rest, and
// one section's failure must never stop the others from being processed.
func (s *Sweeper) runOnce(ctx context.Context) {
	ids, err := s.sections.ListIDs(ctx)
	if err != nil {
		slog.Warn("sweep skipped, could not list sections", "error", err.Error())
		return
	}

	var (
		mu               sync.Mutex
		expired, offered int
	)
	work := make(chan uuid.UUID)
	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				report, err := s.waitlist.ProcessSection(ctx, id)
				if err != nil {
					slog.Warn("section sweep failed", "section_id", id, "error", err.Error())
					continue
				}
				mu.Lock()
				expired += report.Expired
				offered += report.Offered
				mu.Unlock()
			}
		}()
	}
	for _, id := range ids {
		work <- id
	}
	close(work)
	wg.Wait()

	if expired > 0 || offered > 0 {
		slog.Info("waitlist sweep finished",
			"sections", len(ids), "expired", expired, "offered", offered)
	}

	s.gate.CollectExpired(ctx, s.retention)
}
