package handlers

import (
	"context"
	"time"

	"github.com/culturemap/culturemap-backend/internal/database"
	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{ping: func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}}
}

// Check godoc
// @Summary Health check
// @Description Reports service status and database connectivity.
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /api/health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}
	if err := h.ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
