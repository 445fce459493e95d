package components

import (
	"enrollment-core/internal/handler"
	"enrollment-core/internal/handler/api"
	"enrollment-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewEnrollmentHandler,
		api.NewWaitlistHandler,
		api.NewSectionHandler,
		api.NewConflictHandler,
		middleware.NewIdentityMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
