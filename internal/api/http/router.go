package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Complaints *handlers.ComplaintsHandler
	Authority  *handlers.AuthorityHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/complaints", cfg.Complaints.SubmitComplaint)
	app.Get("/complaints/:trackingId", cfg.Complaints.TrackComplaint)

	authority := app.Group("/authority")
	authority.Get("/complaints", cfg.Authority.ListComplaints)
	authority.Get("/complaints/stats", cfg.Authority.Stats)
	authority.Patch("/complaints/:trackingId", cfg.Authority.UpdateComplaint)
}
