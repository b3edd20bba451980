package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/volunteer-service/internal/api/http/handlers"
	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Public         *handlers.PublicHandler
	Auth           *handlers.AuthHandler
	Volunteers     *handlers.VolunteersHandler
	Notes          *handlers.NotesHandler
	AdminUsers     *handlers.AdminUsersHandler
	AuthMiddleware fiber.Handler
	SignupLimiter  IPLimiter
	Metrics        *observability.Metrics
	StaticDir      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Get("/ministry-areas", cfg.Public.MinistryAreas)
	api.Post("/volunteers", rateLimitMiddleware(cfg.SignupLimiter), cfg.Public.Signup)

	admin := api.Group("/admin")
	admin.Post("/login", cfg.Auth.Login)
	admin.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	admin.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	protected := admin.Group("", cfg.AuthMiddleware, auth.RequireAdmin())
	protected.Get("/me", cfg.Auth.Me)
	protected.Post("/password/change", cfg.Auth.ChangePassword)

	protected.Get("/volunteers", cfg.Volunteers.List)
	protected.Get("/volunteers/:id", cfg.Volunteers.Get)
	protected.Put("/volunteers/:id", cfg.Volunteers.Update)
	protected.Delete("/volunteers/:id", cfg.Volunteers.Delete)
	protected.Get("/volunteers/:id/notes", cfg.Notes.List)
	protected.Post("/volunteers/:id/notes", cfg.Notes.Create)
	protected.Delete("/volunteers/:id/notes/:noteId", cfg.Notes.Delete)
	protected.Get("/ministry-areas/summary", cfg.Volunteers.AreaSummary)
	protected.Get("/reports/export", cfg.Volunteers.Export)

	protected.Get("/users", cfg.AdminUsers.List)
	protected.Post("/users", auth.RequireSuperAdmin(), cfg.AdminUsers.Create)
	protected.Patch("/users/:id", cfg.AdminUsers.Update)
	protected.Post("/users/:id/transfer-super-admin", auth.RequireSuperAdmin(), cfg.AdminUsers.TransferSuperAdmin)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			app.Static("/", cfg.StaticDir)
		}
	}
}
