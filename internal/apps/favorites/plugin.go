package favorites

import (
	"github.com/culturemap/culturemap-backend/internal/apps"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct {
	handler *FavoriteHandler
}

func New(service *FavoriteService) *Plugin {
	return &Plugin{handler: NewFavoriteHandler(service)}
}

func (p *Plugin) ID() string { return "favorites" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&models.Favorite{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, guards apps.Guards) {
	g := router.Group("/favorites", guards.Auth)
	g.Get("/", p.handler.List)
	g.Get("/check/:siteId", p.handler.Check)
	g.Post("/:siteId", p.handler.Add)
	g.Delete("/:siteId", p.handler.Remove)
}
