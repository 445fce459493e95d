package components

import (
	"context"

	"enrollment-core/internal/usecase/sweep"

	"go.uber.org/fx"
)

var SweepModule = fx.Module("sweep",
	fx.Provide(
		sweep.NewSweeper,
	),
	fx.Invoke(runSweeper),
)

func runSweeper(lc fx.Lifecycle, sweeper *sweep.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
