package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/culturemap/culturemap-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 100

// Result summarizes one import run.
type Result struct {
	Upserted int
	Skipped  int
}

// Save upserts places by OSM id. Existing sites keep their id so footprints,
// favorites and comments stay attached. Places whose category is not in the
// categories table are skipped.
func Save(ctx context.Context, db *gorm.DB, places []Place) (Result, error) {
	var categories []models.Category
	if err := db.WithContext(ctx).Find(&categories).Error; err != nil {
		return Result{}, fmt.Errorf("failed to load categories: %w", err)
	}
	ids := make(map[string]uint, len(categories))
	for _, c := range categories {
		ids[c.Name] = c.ID
	}

	var res Result
	sites := make([]models.Site, 0, len(places))
	for _, p := range places {
		categoryID, ok := ids[p.Category]
		if !ok {
			slog.Warn("skipping place with unknown category", "osm_id", p.OsmID, "category", p.Category)
			res.Skipped++
			continue
		}
		sites = append(sites, models.Site{
			Name:        p.Name,
			Address:     p.Address,
			Lat:         p.Lat,
			Lon:         p.Lon,
			CategoryID:  categoryID,
			Description: p.Description,
			OsmID:       p.OsmID,
		})
	}
	if len(sites) == 0 {
		return res, nil
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "osm_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "lat", "lon", "category_id", "description", "updated_at",
		}),
	}).CreateInBatches(&sites, batchSize).Error
	if err != nil {
		return res, fmt.Errorf("failed to upsert sites: %w", err)
	}

	res.Upserted = len(sites)
	return res, nil
}
