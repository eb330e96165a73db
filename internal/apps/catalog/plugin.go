package catalog

import (
	"github.com/culturemap/culturemap-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin serves the public, read-only catalog. Its models are shared and
// migrated with the core schema.
type Plugin struct {
	db      *gorm.DB
	handler *CatalogHandler
}

func New(db *gorm.DB, service *CatalogService) *Plugin {
	return &Plugin{db: db, handler: NewCatalogHandler(service)}
}

func (p *Plugin) ID() string { return "catalog" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) Seed() error {
	if err := SeedCategories(p.db); err != nil {
		return err
	}
	p.handler.service.InvalidateCategories()
	return nil
}

func (p *Plugin) RegisterRoutes(router fiber.Router, _ apps.Guards) {
	router.Get("/categories", p.handler.ListCategories)
	router.Get("/sites", p.handler.ListSites)
	router.Get("/sites/:id", p.handler.GetSite)
	router.Get("/stats/summary", p.handler.Summary)
}

var _ apps.Seeder = (*Plugin)(nil)
