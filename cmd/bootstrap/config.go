package bootstrap

import (
	"enrollment-core/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.RateLimitConfig { return cfg.RateLimit },
		func(cfg config.Config) config.WaitlistConfig { return cfg.Waitlist },
		func(cfg config.Config) config.SweepConfig { return cfg.Sweep },
	),
)
