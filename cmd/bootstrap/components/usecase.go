package components

import (
	"splashboard/internal/pkg/clock"
	"splashboard/internal/usecase"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"
	"splashboard/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.NewSeasonResolver,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewGuestCommands,
		commands.NewSeasonCommands,
		commands.NewMembershipCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewGuestQueries,
		queries.NewSeasonQueries,
		queries.NewMembershipQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
