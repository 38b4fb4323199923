package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/green-campus/internal/api/http/handlers"
	"github.com/spec-kit/green-campus/internal/auth"
	"github.com/spec-kit/green-campus/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Messages       *handlers.MessagesHandler
	Dashboard      *handlers.DashboardHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
	SendLimiter    ratelimit.Limiter
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes under /api. It must be called after RegisterMiddlewares.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	requireAuth := cfg.AuthMiddleware.Handle

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	messages := api.Group("/messages")
	messages.Post("/send", rateLimitMiddleware(cfg.SendLimiter, logger), cfg.Messages.Send)
	messages.Get("/", requireAuth, cfg.Messages.List)
	messages.Get("/:id", requireAuth, cfg.Messages.Get)
	messages.Post("/:id/reply", requireAuth, cfg.Messages.Reply)
	messages.Delete("/:id", requireAuth, cfg.Messages.Delete)
	messages.Put("/:id/read", requireAuth, cfg.Messages.MarkRead)

	api.Get("/dashboard", cfg.Dashboard.Get)
	api.Put("/dashboard", requireAuth, cfg.Dashboard.Update)

	api.Get("/metrics", requireAuth, auth.RequireAdmin(), cfg.Metrics.Snapshot)

	app.Use(notFoundHandler)
}
