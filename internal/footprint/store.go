package footprint

import (
	"context"
	"time"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
)

// SiteLookup reads the site catalog. FindSite returns ErrSiteNotFound for
// unknown ids.
type SiteLookup interface {
	FindSite(ctx context.Context, id uint) (*models.Site, error)
	CountSites(ctx context.Context) (int64, error)
}

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Store persists footprints. Implementations must enforce uniqueness of
// (user, site) themselves and report violations from Insert as ErrDuplicate.
type Store interface {
	Exists(ctx context.Context, userID uuid.UUID, siteID uint) (bool, error)
	Insert(ctx context.Context, fp *models.Footprint) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// CountByCategoryForUser maps category id to the number of the user's
	// footprints in that category. Categories without footprints may be absent.
	CountByCategoryForUser(ctx context.Context, userID uuid.UUID) (map[uint]int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]View, error)
	// Get returns ErrFootprintNotFound when the pair has not been collected.
	Get(ctx context.Context, userID uuid.UUID, siteID uint) (*models.Footprint, error)
	DeleteOne(ctx context.Context, userID uuid.UUID, siteID uint) (bool, error)
}

// View is a footprint joined with its site and category for listing.
type View struct {
	ID          uuid.UUID `json:"id"`
	CollectedAt time.Time `json:"collected_at"`
	Distance    int       `json:"distance"`
	SiteID      uint      `json:"site_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
}
