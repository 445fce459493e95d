package components

import (
	"enrollment-core/internal/pkg/clock"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	commands.NewGate,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewEnrollmentCommands,
		commands.NewWaitlistCommands,
		commands.NewSectionCommands,
		commands.NewConflictCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewEnrollmentQueries,
		queries.NewWaitlistQueries,
		queries.NewSectionQueries,
		queries.NewConflictQueries,
	),
)
