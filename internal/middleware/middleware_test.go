package middleware_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/culturemap/culturemap-backend/internal/config"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/culturemap/culturemap-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	users map[uuid.UUID]*models.User
}

func (f fakeFinder) FindActiveUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

var testCfg = &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}

func newApp(finder middleware.UserFinder) *fiber.App {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected(testCfg), func(c *fiber.Ctx) error {
		id, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})
	app.Get("/admin", middleware.JWTProtected(testCfg), middleware.AdminRequired(finder), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func bearer(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := services.NewAccessToken(testCfg, user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTProtected_MissingToken(t *testing.T) {
	app := newApp(fakeFinder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtected_WrongSecret(t *testing.T) {
	app := newApp(fakeFinder{})
	other := &config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour}
	token, err := services.NewAccessToken(other, &models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtected_ValidToken(t *testing.T) {
	app := newApp(fakeFinder{})
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", bearer(t, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	demoted := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	regular := &models.User{ID: uuid.New(), Role: models.RoleUser}

	finder := fakeFinder{users: map[uuid.UUID]*models.User{
		admin.ID:   admin,
		regular.ID: regular,
		// Token still says admin but the stored role was revoked.
		demoted.ID: {ID: demoted.ID, Role: models.RoleUser},
	}}
	app := newApp(finder)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"admin", admin, fiber.StatusNoContent},
		{"regular user", regular, fiber.StatusForbidden},
		{"demoted admin", demoted, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", bearer(t, tt.user))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
