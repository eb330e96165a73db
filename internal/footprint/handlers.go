package footprint

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/culturemap/culturemap-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type CollectRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon *float64 `json:"lon" validate:"omitempty,longitude"`
}

type CollectResponse struct {
	Message     string    `json:"message"`
	Distance    int       `json:"distance"`
	CollectedAt time.Time `json:"collected_at"`
	Stats       *Stats    `json:"stats,omitempty"`
}

type TooFarResponse struct {
	Error       bool   `json:"error"`
	Message     string `json:"message"`
	Distance    int    `json:"distance"`
	MaxDistance int    `json:"max_distance"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Collect godoc
// @Summary Collect a site
// @Description Collects the site when the submitted position is within 400 meters of it. Each site can be collected once per user.
// @Tags Footprints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Param request body CollectRequest true "Current position"
// @Success 201 {object} CollectResponse
// @Failure 400 {object} TooFarResponse "Missing location, invalid input, or too far (distance and max_distance set)"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Site not found"
// @Failure 409 {object} dto.ErrorResponse "Already collected"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/footprints/{siteId} [post]
func (h *Handler) Collect(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	siteID, err := parseSiteID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid site ID")
	}

	var req CollectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := validation.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Collect(c.UserContext(), userID, siteID, req.Lat, req.Lon)
	if err != nil {
		var tooFar *TooFarError
		if errors.As(err, &tooFar) {
			return c.Status(fiber.StatusBadRequest).JSON(TooFarResponse{
				Error:       true,
				Message:     "You are too far from this site. Move closer to collect it.",
				Distance:    tooFar.Distance,
				MaxDistance: tooFar.MaxDistance,
			})
		}
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(CollectResponse{
		Message:     "Site collected successfully",
		Distance:    result.Distance,
		CollectedAt: result.Footprint.CollectedAt,
		Stats:       result.Stats,
	})
}

// List godoc
// @Summary List collected sites
// @Description Newest first.
// @Tags Footprints
// @Produce json
// @Security BearerAuth
// @Success 200 {array} View
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/footprints [get]
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	views, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(views)
}

// Stats godoc
// @Summary Collection progress
// @Description Totals, per-category counts, medals and achievements.
// @Tags Footprints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Stats
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/footprints/stats [get]
func (h *Handler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	stats, err := h.service.Stats(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// Check godoc
// @Summary Check whether a site is collected
// @Tags Footprints
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Success 200 {object} CheckResult
// @Failure 400 {object} dto.ErrorResponse "Invalid site ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/footprints/check/{siteId} [get]
func (h *Handler) Check(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	siteID, err := parseSiteID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid site ID")
	}

	result, err := h.service.Check(c.UserContext(), userID, siteID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// Remove godoc
// @Summary Remove a footprint
// @Tags Footprints
// @Produce json
// @Security BearerAuth
// @Param siteId path integer true "Site ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Footprint not found"
// @Router /api/footprints/{siteId} [delete]
func (h *Handler) Remove(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	siteID, err := parseSiteID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid site ID")
	}

	if err := h.service.Remove(c.UserContext(), userID, siteID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Footprint removed"})
}

func parseSiteID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("siteId"), 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("site id must be positive")
	}
	return uint(id), nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrMissingLocation):
		return errorJSON(c, fiber.StatusBadRequest, "Current location is required")
	case errors.Is(err, ErrSiteNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Site not found")
	case errors.Is(err, ErrTooFar):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyCollected):
		return errorJSON(c, fiber.StatusConflict, "You have already collected this site")
	case errors.Is(err, ErrFootprintNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Footprint not found")
	default:
		slog.ErrorContext(c.UserContext(), "footprint request failed",
			"action", "footprint_"+c.Method(), "request_id", requestID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
