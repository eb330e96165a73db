package routes

import (
	"time"

	"github.com/culturemap/culturemap-backend/internal/apps"
	"github.com/culturemap/culturemap-backend/internal/config"
	"github.com/culturemap/culturemap-backend/internal/handlers"
	"github.com/culturemap/culturemap-backend/internal/metrics"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/culturemap/culturemap-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "github.com/culturemap/culturemap-backend/docs"
)

const (
	apiRateLimit  = 120
	authRateLimit = 10
)

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	m *metrics.Metrics,
	plugins []apps.Plugin,
) {
	app.Get("/metrics", m.Handler())
	app.Get("/api-docs/*", fiberSwagger.WrapHandler)

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(rateLimit(apiRateLimit))

	api.Get("/health", healthHandler.Check)

	guards := apps.Guards{
		Auth:  middleware.JWTProtected(cfg),
		Admin: middleware.AdminRequired(authService),
	}

	users := api.Group("/users")

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	authLimit := rateLimit(authRateLimit)
	users.Post("/register", authLimit, authHandler.Register)
	users.Post("/login", authLimit, authHandler.Login)

	users.Get("/me", guards.Auth, authHandler.Me)
	users.Put("/me", guards.Auth, authHandler.UpdateMe)

	// Admin user management
	users.Get("/", guards.Auth, guards.Admin, authHandler.ListUsers)
	users.Get("/deleted/list", guards.Auth, guards.Admin, authHandler.ListDeletedUsers)
	users.Delete("/:id", guards.Auth, guards.Admin, authHandler.DeleteUser)

	for _, p := range plugins {
		p.RegisterRoutes(api, guards)
	}
}
