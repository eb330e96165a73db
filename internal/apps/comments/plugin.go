package comments

import (
	"github.com/culturemap/culturemap-backend/internal/apps"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct {
	handler *CommentHandler
}

func New(service *CommentService) *Plugin {
	return &Plugin{handler: NewCommentHandler(service)}
}

func (p *Plugin) ID() string { return "comments" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&models.Comment{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, guards apps.Guards) {
	g := router.Group("/comments")

	// Public reads
	g.Get("/site/:siteId", p.handler.ListForSite)
	g.Get("/user/:userId", p.handler.ListForUser)

	// Authenticated writes
	g.Post("/site/:siteId", guards.Auth, p.handler.Create)
	g.Delete("/:commentId", guards.Auth, p.handler.Delete)

	// Admin
	g.Get("/all/list", guards.Auth, guards.Admin, p.handler.ListAll)
	g.Post("/batch-delete", guards.Auth, guards.Admin, p.handler.BatchDelete)
}
