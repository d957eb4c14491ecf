package components

import (
	"splashboard/internal/handler"
	"splashboard/internal/handler/api"
	"splashboard/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewGuestHandler,
		api.NewGuestStreamHandler,
		api.NewMembershipHandler,
		api.NewSeasonHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	auth *api.AuthHandler,
	guest *api.GuestHandler,
	stream *api.GuestStreamHandler,
	membership *api.MembershipHandler,
	season *api.SeasonHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:        auth,
		Guest:       guest,
		GuestStream: stream,
		Membership:  membership,
		Season:      season,
	}
}
