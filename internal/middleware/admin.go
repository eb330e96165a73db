package middleware

import (
	"context"

	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserFinder loads an active (not soft-deleted) user.
type UserFinder interface {
	FindActiveUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AdminRequired must run after JWTProtected. The role claim is checked first
// and then confirmed against the database, so a demoted or deleted admin
// loses access before their token expires.
func AdminRequired(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !IsAdmin(c) {
			return forbidden(c)
		}

		user, err := users.FindActiveUser(c.UserContext(), userID)
		if err != nil || !user.IsAdmin() {
			return forbidden(c)
		}
		return c.Next()
	}
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: "Admin access required",
	})
}
