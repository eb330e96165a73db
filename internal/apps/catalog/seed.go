package catalog

import (
	"log/slog"

	"github.com/culturemap/culturemap-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultCategories = []models.Category{
	{Name: CategoryTheatre, Color: "#e74c3c"},
	{Name: CategoryMuseum, Color: "#3498db"},
	{Name: CategoryPublicArt, Color: "#9b59b6"},
	{Name: CategoryRestaurant, Color: "#f39c12"},
}

// SeedCategories inserts the built-in categories. Existing rows are left
// untouched, so operators may recolor them.
func SeedCategories(db *gorm.DB) error {
	rows := make([]models.Category, len(defaultCategories))
	copy(rows, defaultCategories)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		slog.Info("seeded categories", "count", result.RowsAffected)
	}
	return nil
}
