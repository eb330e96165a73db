package footprint

import (
	"github.com/culturemap/culturemap-backend/internal/apps"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct {
	handler *Handler
}

func NewPlugin(service *Service) *Plugin {
	return &Plugin{handler: NewHandler(service)}
}

func (p *Plugin) ID() string { return "footprints" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&models.Footprint{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, guards apps.Guards) {
	g := router.Group("/footprints", guards.Auth)
	g.Get("/", p.handler.List)
	g.Get("/stats", p.handler.Stats)
	g.Get("/check/:siteId", p.handler.Check)
	g.Post("/:siteId", p.handler.Collect)
	g.Delete("/:siteId", p.handler.Remove)
}

var _ apps.Plugin = (*Plugin)(nil)
