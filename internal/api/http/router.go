package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bsm-kit/ticketview-service/internal/api/http/handlers"
	"github.com/bsm-kit/ticketview-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Views          *handlers.ViewsHandler
	TicketTypes    *handlers.TicketTypesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Post("/tickets", cfg.Tickets.CreateTicket)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets/bulk-delete", cfg.Tickets.BulkDelete)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	api.Delete("/tickets/:id", cfg.Tickets.DeleteTicket)

	api.Get("/ticket-types", cfg.TicketTypes.List)

	views := api.Group("/views")
	views.Post("/refresh", cfg.Views.Refresh)
	views.Get("/list", cfg.Views.ListView)
	views.Get("/kanban", cfg.Views.Kanban)
	views.Post("/kanban/move", cfg.Views.Move)
}
