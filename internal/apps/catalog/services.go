package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/culturemap/culturemap-backend/internal/footprint"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// ErrSiteNotFound is the footprint sentinel so the catalog can serve as the
// collection gate's site lookup.
var ErrSiteNotFound = footprint.ErrSiteNotFound

const categoriesKey = "categories"

type CatalogService struct {
	db    *gorm.DB
	cache *cache.Cache

	loadCategories func(ctx context.Context) ([]models.Category, error)
}

// NewCatalogService caches the category list for ttl. Categories change only
// through seeding or manual edits.
func NewCatalogService(db *gorm.DB, ttl time.Duration) *CatalogService {
	s := &CatalogService{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
	s.loadCategories = s.queryCategories
	return s
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(categoriesKey); ok {
		return cached.([]models.Category), nil
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(categoriesKey, categories)
	return categories, nil
}

// InvalidateCategories drops the cached list; the next read hits the database.
func (s *CatalogService) InvalidateCategories() {
	s.cache.Delete(categoriesKey)
}

// FreshCategories lists categories straight from the database. Progress
// statistics use it so a category added after the cache was filled still
// shows up next to the footprints counted in it.
func (s *CatalogService) FreshCategories() footprint.CategoryLister {
	return freshCategories{s}
}

type freshCategories struct{ s *CatalogService }

func (f freshCategories) ListCategories(ctx context.Context) ([]models.Category, error) {
	return f.s.loadCategories(ctx)
}

func (s *CatalogService) queryCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := s.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (s *CatalogService) siteQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("sites AS s").
		Select(`s.id, s.name, s.address, s.lat, s.lon, s.description, s.osm_id,
			c.id AS category_id, c.name AS category, c.color`).
		Joins("JOIN categories AS c ON c.id = s.category_id")
}

// ListSites returns sites ordered by name. Category matches the category name
// exactly; Query is a case-insensitive substring of the site name.
func (s *CatalogService) ListSites(ctx context.Context, filter SiteFilter) ([]SiteView, error) {
	q := s.siteQuery(ctx)
	if filter.Category != "" {
		q = q.Where("c.name = ?", filter.Category)
	}
	if filter.Query != "" {
		q = q.Where("s.name ILIKE ?", "%"+escapeLike(filter.Query)+"%")
	}

	sites := make([]SiteView, 0)
	if err := q.Order("s.name").Scan(&sites).Error; err != nil {
		return nil, err
	}
	for i := range sites {
		sites[i].fillDescription()
	}
	return sites, nil
}

func (s *CatalogService) GetSite(ctx context.Context, id uint) (*SiteView, error) {
	var sites []SiteView
	if err := s.siteQuery(ctx).Where("s.id = ?", id).Limit(1).Scan(&sites).Error; err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, ErrSiteNotFound
	}
	site := sites[0]
	site.fillDescription()
	return &site, nil
}

// FindSite loads the raw row. Used by the collection gate.
func (s *CatalogService) FindSite(ctx context.Context, id uint) (*models.Site, error) {
	var site models.Site
	err := s.db.WithContext(ctx).First(&site, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSiteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *CatalogService) CountSites(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Site{}).Count(&n).Error
	return n, err
}

// Summary reports catalog-wide counts. Soft-deleted users are not counted.
func (s *CatalogService) Summary(ctx context.Context) (*Summary, error) {
	sum := &Summary{CategoryStats: make([]CategorySiteCount, 0)}

	siteCount, err := s.CountSites(ctx)
	if err != nil {
		return nil, err
	}
	sum.SiteCount = siteCount

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&sum.UserCount).Error; err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.name AS category, COUNT(s.id) AS count").
		Joins("LEFT JOIN sites AS s ON s.category_id = c.id").
		Group("c.id, c.name").
		Order("c.id").
		Scan(&sum.CategoryStats).Error
	if err != nil {
		return nil, err
	}
	sum.CategoryCount = int64(len(sum.CategoryStats))
	return sum, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
