package components

import (
	"splashboard/internal/infra/counter"
	"splashboard/internal/infra/live"
	"splashboard/internal/infra/readstore"
	repo_impl "splashboard/internal/infra/repository"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"
	"splashboard/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
			fx.As(new(commands.RoleUpdater)),
		),
		fx.Annotate(
			repo_impl.NewRosterRepository,
			fx.As(new(commands.RosterRepository)),
		),
		fx.Annotate(
			repo_impl.NewSeasonRepository,
			fx.As(new(commands.SeasonRepository)),
		),
		fx.Annotate(
			repo_impl.NewSettingsRepository,
			fx.As(new(commands.SettingsRepository)),
		),
		fx.Annotate(
			repo_impl.NewMembershipRepository,
			fx.As(new(commands.MembershipRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewSeasonReadStore,
			fx.As(new(queries.SeasonReadStore)),
			fx.As(new(shared.SeasonConfigStore)),
		),
		fx.Annotate(
			readstore.NewRosterReadStore,
			fx.As(new(queries.RosterReadStore)),
		),
		fx.Annotate(
			readstore.NewMembershipReadStore,
			fx.As(new(queries.MembershipReadStore)),
		),
		// Redis カウンタとライブ配信
		fx.Annotate(
			counter.NewStore,
			fx.As(new(commands.CounterStore)),
			fx.As(new(queries.CounterReader)),
		),
		live.NewBroker,
		func(b *live.Broker) commands.LivePublisher { return b },
	),
)
