package footprint

import (
	"context"
	"errors"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store. The database handle must be opened
// with TranslateError so unique violations arrive as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Exists(ctx context.Context, userID uuid.UUID, siteID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Footprint{}).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) Insert(ctx context.Context, fp *models.Footprint) error {
	err := s.db.WithContext(ctx).Omit("User", "Site").Create(fp).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Footprint{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (s *GormStore) CountByCategoryForUser(ctx context.Context, userID uuid.UUID) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	err := s.db.WithContext(ctx).
		Table("footprints AS f").
		Select("s.category_id AS category_id, COUNT(f.id) AS count").
		Joins("JOIN sites AS s ON s.id = f.site_id").
		Where("f.user_id = ?", userID).
		Group("s.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]View, error) {
	views := make([]View, 0)
	err := s.db.WithContext(ctx).
		Table("footprints AS f").
		Select(`f.id, f.collected_at, f.distance,
			s.id AS site_id, s.name, s.address, s.lat, s.lon, s.description,
			c.name AS category, c.color`).
		Joins("JOIN sites AS s ON s.id = f.site_id").
		Joins("JOIN categories AS c ON c.id = s.category_id").
		Where("f.user_id = ?", userID).
		Order("f.collected_at DESC").
		Scan(&views).Error
	return views, err
}

func (s *GormStore) Get(ctx context.Context, userID uuid.UUID, siteID uint) (*models.Footprint, error) {
	var fp models.Footprint
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		First(&fp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFootprintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fp, nil
}

func (s *GormStore) DeleteOne(ctx context.Context, userID uuid.UUID, siteID uint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND site_id = ?", userID, siteID).
		Delete(&models.Footprint{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
