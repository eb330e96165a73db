package favorites

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CheckResponse struct {
	IsFavorited bool `json:"is_favorited"`
}

type FavoriteHandler struct {
	service *FavoriteService
}

func NewFavoriteHandler(service *FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// List godoc
// @Summary List favorite sites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} FavoriteView
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/favorites [get]
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	favorites, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		slog.Error("failed to list favorites", "action", "list_favorites", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch favorites",
		})
	}
	return c.JSON(favorites)
}

// Add godoc
// @Summary Add a site to favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Success 201 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 409 {object} dto.ErrorResponse "Already a favorite"
// @Router /api/favorites/{siteId} [post]
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	userID, siteID, ok := params(c)
	if !ok {
		return nil
	}

	if err := h.service.Add(c.UserContext(), userID, siteID); err != nil {
		switch {
		case errors.Is(err, ErrSiteNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Site not found",
			})
		case errors.Is(err, ErrAlreadyFavorited):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Site already in favorites",
			})
		}
		slog.Error("failed to add favorite", "action", "add_favorite", "user_id", userID.String(), "site_id", siteID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to add favorite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Added to favorites"})
}

// Remove godoc
// @Summary Remove a site from favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Favorite not found"
// @Router /api/favorites/{siteId} [delete]
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	userID, siteID, ok := params(c)
	if !ok {
		return nil
	}

	if err := h.service.Remove(c.UserContext(), userID, siteID); err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Favorite not found",
			})
		}
		slog.Error("failed to remove favorite", "action", "remove_favorite", "user_id", userID.String(), "site_id", siteID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove favorite",
		})
	}

	return c.JSON(dto.MessageResponse{Message: "Removed from favorites"})
}

// Check godoc
// @Summary Check whether a site is a favorite
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Success 200 {object} CheckResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/favorites/check/{siteId} [get]
func (h *FavoriteHandler) Check(c *fiber.Ctx) error {
	userID, siteID, ok := params(c)
	if !ok {
		return nil
	}

	favorited, err := h.service.IsFavorited(c.UserContext(), userID, siteID)
	if err != nil {
		slog.Error("failed to check favorite", "action", "check_favorite", "user_id", userID.String(), "site_id", siteID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to check favorite status",
		})
	}
	return c.JSON(CheckResponse{IsFavorited: favorited})
}

// params reads the caller and :siteId. When ok is false the error response
// has already been written.
func params(c *fiber.Ctx) (uuid.UUID, uint, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
		return uuid.Nil, 0, false
	}
	siteID, err := strconv.ParseUint(c.Params("siteId"), 10, 32)
	if err != nil || siteID == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid site ID",
		})
		return uuid.Nil, 0, false
	}
	return userID, uint(siteID), true
}
