package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetflow/support-engine/internal/api/http/handlers"
	"github.com/fleetflow/support-engine/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Support *handlers.SupportHandler
	Events  *handlers.EventsHandler
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Handler())

	support := app.Group("/support")
	support.Post("/tickets", cfg.Support.CreateTicket)
	support.Get("/tickets", cfg.Support.ListTickets)
	support.Get("/tickets/:id", cfg.Support.GetTicket)
	support.Patch("/tickets/:id/status", cfg.Support.UpdateStatus)
	support.Post("/tickets/:id/satisfaction", cfg.Support.RateTicket)

	support.Post("/chat", cfg.Support.Chat)
	support.Get("/chat/recent", cfg.Support.RecentChats)

	support.Get("/metrics", cfg.Support.Metrics)
	support.Get("/knowledge-base", cfg.Support.ListArticles)
	support.Get("/knowledge-base/:id", cfg.Support.GetArticle)

	support.Get("/events", cfg.Events.Stream)
}
