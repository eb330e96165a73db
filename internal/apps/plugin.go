package apps

import (
	"github.com/gofiber/fiber/v2"
)

// Guards are the shared access-control handlers plugins attach to their
// routes. Auth validates the bearer token; Admin must run after Auth.
type Guards struct {
	Auth  fiber.Handler
	Admin fiber.Handler
}

// Plugin is a feature module mounted under /api. Plugins are constructed
// with their services already wired, so registration only needs a router.
type Plugin interface {
	// ID returns the unique feature identifier, also used in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the feature's routes on the /api group. Routes
	// pick the guards they need; public routes use none.
	RegisterRoutes(router fiber.Router, guards Guards)
}

// Seeder is implemented by plugins that need reference data on startup.
type Seeder interface {
	Plugin
	Seed() error
}
