package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"splashboard/internal/domain/user"
	"splashboard/internal/handler/api"
	"splashboard/internal/handler/middleware"
	"splashboard/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth        *api.AuthHandler
	Guest       *api.GuestHandler
	GuestStream *api.GuestStreamHandler
	Membership  *api.MembershipHandler
	Season      *api.SeasonHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAdmin := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)
	requireMember := authMiddleware.RequireRoleAtLeast(user.RoleMember)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		// ゲストパスは会員から。申請者はまだ使えない。
		guest := apiGroup.Group("/guest")
		guest.Use(authMiddleware.RequireAuth(), requireMember)
		{
			addRoutes(guest, []route{
				{Method: http.MethodGet, Path: "/availability", Handler: h.Guest.Availability},
				{Method: http.MethodGet, Path: "/signups", Handler: h.Guest.MySignups},
				{Method: http.MethodPut, Path: "/signups", Handler: h.Guest.SetSignup},
				{Method: http.MethodGet, Path: "/stream", Handler: h.GuestStream.Stream},
				{Method: http.MethodGet, Path: "/roster/:day", Handler: h.Guest.DayRoster},
				{Method: http.MethodPost, Path: "/recount", Handler: h.Guest.Recount, Mw: []gin.HandlerFunc{requireAdmin}},
			})
		}

		membership := apiGroup.Group("/membership")
		membership.Use(authMiddleware.RequireAuth())
		{
			addRoutes(membership, []route{
				{Method: http.MethodPost, Path: "/applications", Handler: h.Membership.Apply},
				{Method: http.MethodGet, Path: "/applications/me", Handler: h.Membership.Mine},
				{Method: http.MethodPost, Path: "/applications/:id/accept", Handler: h.Membership.Accept},
				{Method: http.MethodGet, Path: "/applications", Handler: h.Membership.List, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/applications/:id/waitlist", Handler: h.Membership.Waitlist, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/applications/:id/offer", Handler: h.Membership.Offer, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/applications/:id/reject", Handler: h.Membership.Reject, Mw: []gin.HandlerFunc{requireAdmin}},
				{Method: http.MethodPost, Path: "/applications/:id/revoke", Handler: h.Membership.Revoke, Mw: []gin.HandlerFunc{requireAdmin}},
			})
		}

		seasons := apiGroup.Group("/seasons")
		{
			addRoutes(seasons, []route{
				{Method: http.MethodGet, Path: "/config", Handler: h.Season.Config},
			})

			adminOnly := seasons.Group("")
			adminOnly.Use(authMiddleware.RequireAuth(), requireAdmin)
			addRoutes(adminOnly, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Season.List},
				{Method: http.MethodPut, Path: "/:season", Handler: h.Season.Update},
			})
		}

		settings := apiGroup.Group("/settings")
		settings.Use(authMiddleware.RequireAuth(), requireAdmin)
		{
			addRoutes(settings, []route{
				{Method: http.MethodPut, Path: "/working-season", Handler: h.Season.SetWorking},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
