package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/culturemap/culturemap-backend/internal/footprint"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSiteNotFound     = footprint.ErrSiteNotFound
	ErrAlreadyFavorited = errors.New("site already favorited")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
	FavoritedAt time.Time `json:"favorited_at"`
}

type FavoriteService struct {
	db    *gorm.DB
	sites footprint.SiteLookup
}

func NewFavoriteService(db *gorm.DB, sites footprint.SiteLookup) *FavoriteService {
	return &FavoriteService{db: db, sites: sites}
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]FavoriteView, error) {
	favorites := make([]FavoriteView, 0)
	err := s.db.WithContext(ctx).
		Table("favorites AS f").
		Select(`s.id, s.name, s.address, s.lat, s.lon, s.description,
			c.name AS category, c.color, f.created_at AS favorited_at`).
		Joins("JOIN sites AS s ON s.id = f.site_id").
		Joins("JOIN categories AS c ON c.id = s.category_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Scan(&favorites).Error
	return favorites, err
}

func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, siteID uint) error {
	if _, err := s.sites.FindSite(ctx, siteID); err != nil {
		return err
	}

	fav := &models.Favorite{ID: uuid.New(), UserID: userID, SiteID: siteID}
	err := s.db.WithContext(ctx).Omit("User", "Site").Create(fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyFavorited
	}
	return err
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, siteID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID uuid.UUID, siteID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		Count(&n).Error
	return n > 0, err
}
