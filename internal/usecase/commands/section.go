package commands

import (
	"context"

	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/pkg/config"
	"enrollment-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type SectionCommands interface {
	// ChangeCapacity resizes a section. Shrinking below the enrolled count
	// is rejected; growth may free seats and trigger a promotion offer.
	ChangeCapacity(ctx context.Context, sectionID uuid.UUID, capacity int, actorID uuid.UUID) error
}

type sectionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.WaitlistConfig
}

func NewSectionCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.WaitlistConfig) SectionCommands {
	return &sectionCommandsImpl{uow: uow, clock: clk, cfg: cfg}
}

func (c *sectionCommandsImpl) ChangeCapacity(ctx context.Context, sectionID uuid.UUID, capacity int, actorID uuid.UUID) error {
	now := c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sec, err := tx.Sections().FindByIDForUpdate(ctx, sectionID)
		if err != nil {
			return err
		}
		previous := sec.Capacity()
		if err := sec.ChangeCapacity(capacity); err != nil {
			return err
		}
		if err := tx.Sections().Save(ctx, sec); err != nil {
			return err
		}
		if err := emitEvent(ctx, tx.Outbox(), TopicCapacityChanged, now, map[string]any{
			"section_id": sectionID,
			"actor_id":   actorID,
			"previous":   previous,
			"capacity":   capacity,
		}); err != nil {
			return err
		}
		if sec.HasOpenSeat() {
			_, err := promoteNext(ctx, tx, sec, c.cfg.OfferTTL, now)
			return err
		}
		return nil
	})
	return mapRepoErr(err)
}
