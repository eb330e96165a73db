package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/culturemap/culturemap-backend/internal/config"
	"github.com/culturemap/culturemap-backend/internal/database/dbtest"
	"github.com/culturemap/culturemap-backend/internal/dto"
	"github.com/culturemap/culturemap-backend/internal/middleware"
	"github.com/culturemap/culturemap-backend/internal/services"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	h := &HealthHandler{ping: func(context.Context) error { return nil }}
	app := fiber.New()
	app.Get("/health", h.Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.DB)
	_, err = time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)

	h.ping = func(context.Context) error { return errors.New("connection refused") }
	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func post(t *testing.T, app *fiber.App, path, body, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestRegister_Validation(t *testing.T) {
	h := NewAuthHandler(services.NewAuthService(nil, &config.Config{}))
	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)

	status, body := post(t, app, "/register", `{"username":"anna","email":"not-an-email","password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "email must be a valid email address", body["message"])

	status, body = post(t, app, "/register", `{"username":"anna","email":"anna@example.com","password":"123"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "password must be at least 6 characters", body["message"])

	status, body = post(t, app, "/register", `{"username":"   ","email":"anna@example.com","password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "username must not be blank", body["message"])

	status, _ = post(t, app, "/login", `{"password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, "/login", `not json`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAccounts_Integration(t *testing.T) {
	db := dbtest.Open(t)
	cfg := &config.Config{JWTSecret: "handlers-secret", JWTExpiry: time.Hour}
	svc := services.NewAuthService(db, cfg)
	h := NewAuthHandler(svc)

	app := fiber.New()
	users := app.Group("/api/users")
	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Get("/me", middleware.JWTProtected(cfg), h.Me)
	users.Put("/me", middleware.JWTProtected(cfg), h.UpdateMe)
	users.Delete("/:id", middleware.JWTProtected(cfg), middleware.AdminRequired(svc), h.DeleteUser)

	name := "it_" + uuid.New().String()[:8]
	status, body := post(t, app, "/api/users/register",
		`{"username":"`+name+`","email":"`+name+`@Example.com","password":"secret1"}`, "")
	require.Equal(t, fiber.StatusCreated, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]interface{})
	userID := uuid.MustParse(user["id"].(string))
	t.Cleanup(func() { db.Unscoped().Exec("DELETE FROM users WHERE id = ?", userID) })
	assert.Equal(t, name+"@example.com", user["email"])

	status, _ = post(t, app, "/api/users/register",
		`{"username":"`+name+`","email":"other_`+name+`@example.com","password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = post(t, app, "/api/users/login", `{"email_or_username":"`+name+`","password":"wrong"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = post(t, app, "/api/users/login", `{"email_or_username":"`+name+`@example.com","password":"secret1"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	req := httptest.NewRequest("PUT", "/api/users/me", strings.NewReader(`{"current_lat":50.83}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("PUT", "/api/users/me", strings.NewReader(`{"current_lat":50.83,"current_lon":12.92}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A regular user cannot reach the admin delete route.
	req = httptest.NewRequest("DELETE", "/api/users/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Soft-deleted users can no longer log in.
	require.NoError(t, svc.SoftDeleteUser(context.Background(), uuid.New(), userID))
	status, _ = post(t, app, "/api/users/login", `{"email_or_username":"`+name+`","password":"secret1"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	deleted, err := svc.ListDeletedUsers(context.Background())
	require.NoError(t, err)
	found := false
	for _, u := range deleted {
		if u.ID == userID {
			found = true
			assert.True(t, u.Deleted)
		}
	}
	assert.True(t, found)
}
