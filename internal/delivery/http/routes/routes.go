package routes

import (
	"talent-bridge/internal/delivery/http/handler"
	"talent-bridge/internal/delivery/http/middleware"
	"talent-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.MatchHandler
	ws     *ws.Handler
	auth   *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, match *handler.MatchHandler, wsHandler *ws.Handler, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, match: match, ws: wsHandler, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// StaffingRoles may run and read matches.
var StaffingRoles = []string{"PM", "ADMIN"}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1")
	protected := v1.Group("", r.auth.Middleware(), middleware.RequireRoles(StaffingRoles...))

	if r.match != nil {
		r.match.RegisterRoutes(protected)
	}
	if r.ws != nil {
		protected.Get("/ws/matches", r.ws.HandleMatchesWS)
	}
}
