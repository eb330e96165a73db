package catalog

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service *CatalogService
}

func NewCatalogHandler(service *CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListCategories godoc
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		slog.Error("failed to list categories", "action", "list_categories", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load categories",
		})
	}
	return c.JSON(categories)
}

// ListSites godoc
// @Summary List sites
// @Description Ordered by name.
// @Tags Catalog
// @Produce json
// @Param category query string false "Exact category name"
// @Param q query string false "Case-insensitive name search"
// @Success 200 {array} SiteView
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/sites [get]
func (h *CatalogHandler) ListSites(c *fiber.Ctx) error {
	filter := SiteFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Query:    strings.TrimSpace(c.Query("q")),
	}

	sites, err := h.service.ListSites(c.UserContext(), filter)
	if err != nil {
		slog.Error("failed to list sites", "action", "list_sites", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load sites",
		})
	}
	return c.JSON(sites)
}

// GetSite godoc
// @Summary Site details
// @Tags Catalog
// @Produce json
// @Param id path integer true "Site ID"
// @Success 200 {object} SiteView
// @Failure 400 {object} dto.ErrorResponse "Invalid site ID"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Router /api/sites/{id} [get]
func (h *CatalogHandler) GetSite(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid site ID",
		})
	}

	site, err := h.service.GetSite(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, ErrSiteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Site not found",
			})
		}
		slog.Error("failed to load site", "action", "get_site", "site_id", uint(id), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load site details",
		})
	}
	return c.JSON(site)
}

// Summary godoc
// @Summary Site and user totals
// @Tags Catalog
// @Produce json
// @Success 200 {object} Summary
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/stats/summary [get]
func (h *CatalogHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.service.Summary(c.UserContext())
	if err != nil {
		slog.Error("failed to build summary", "action", "stats_summary", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch statistics",
		})
	}
	return c.JSON(sum)
}
