package bootstrap

import (
	"log/slog"

	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the process-wide slog logger from the log section of the
// configuration. Constructing the middleware logger also installs it as the
// slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
