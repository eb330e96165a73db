// Package dbtest opens the Postgres database used by integration tests.
// Tests are skipped unless TEST_DATABASE_DSN is set.
package dbtest

import (
	"os"
	"testing"

	"github.com/culturemap/culturemap-backend/internal/database"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EnvDSN = "TEST_DATABASE_DSN"

// Open connects and migrates every model. The pool is closed when t ends.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set; skipping integration test", EnvDSN)
	}

	db, err := database.OpenDSN(dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.MigrateShared(db); err != nil {
		t.Fatalf("migrate shared models: %v", err)
	}
	err = database.MigrateModels(db, []interface{}{
		&models.Footprint{},
		&models.Favorite{},
		&models.Comment{},
	})
	if err != nil {
		t.Fatalf("migrate feature models: %v", err)
	}
	return db
}

// CreateUser inserts a throwaway user and removes it (and its cascaded rows)
// when t ends.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	id := uuid.New()
	u := &models.User{
		ID:       id,
		Username: "it_" + id.String()[:8],
		Email:    "it_" + id.String()[:8] + "@example.com",
		Password: "x",
		Role:     models.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&models.User{}, "id = ?", id) })
	return u
}

// CreateSite inserts a site in a fresh category and removes both when t ends.
func CreateSite(t *testing.T, db *gorm.DB, lat, lon float64) *models.Site {
	t.Helper()
	tag := uuid.New().String()[:8]
	cat := &models.Category{Name: "it_" + tag, Color: "#000000"}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	site := &models.Site{
		Name:       "Site " + tag,
		Lat:        lat,
		Lon:        lon,
		CategoryID: cat.ID,
		OsmID:      "it/" + tag,
	}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("create site: %v", err)
	}
	t.Cleanup(func() {
		db.Delete(&models.Site{}, site.ID)
		db.Delete(&models.Category{}, cat.ID)
	})
	return site
}
