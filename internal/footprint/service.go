// Package footprint implements geolocation-gated site collection: a user
// standing within MaxCollectDistance of a site may collect it once, and every
// collection feeds the progress statistics (medals, achievements).
package footprint

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/culturemap/culturemap-backend/internal/geo"
	"github.com/culturemap/culturemap-backend/internal/metrics"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
)

type Service struct {
	store        Store
	sites        SiteLookup
	categories   CategoryLister
	achievements *AchievementTable
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewService wires the collection gate. m may be nil.
func NewService(store Store, sites SiteLookup, categories CategoryLister, achievements *AchievementTable, m *metrics.Metrics) *Service {
	if achievements == nil {
		achievements = DefaultAchievements()
	}
	return &Service{
		store:        store,
		sites:        sites,
		categories:   categories,
		achievements: achievements,
		metrics:      m,
		now:          time.Now,
	}
}

type CollectResult struct {
	Distance  int
	Footprint *models.Footprint
	// Stats is nil only when the footprint was stored but the follow-up
	// aggregation failed.
	Stats *Stats
}

type CheckResult struct {
	Collected   bool       `json:"is_collected"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
	Distance    *int       `json:"distance,omitempty"`
}

// Collect claims siteID for userID from the submitted position. A zero
// coordinate is a valid position; only absent coordinates are rejected.
func (s *Service) Collect(ctx context.Context, userID uuid.UUID, siteID uint, lat, lon *float64) (*CollectResult, error) {
	if lat == nil || lon == nil {
		s.metrics.ObserveCollect(metrics.OutcomeMissingLocation, -1)
		return nil, ErrMissingLocation
	}

	site, err := s.sites.FindSite(ctx, siteID)
	if err != nil {
		if errors.Is(err, ErrSiteNotFound) {
			s.metrics.ObserveCollect(metrics.OutcomeSiteNotFound, -1)
			return nil, ErrSiteNotFound
		}
		return nil, s.fail(ctx, "find_site", userID, siteID, -1, err)
	}

	distance := geo.DistanceMeters(*lat, *lon, site.Lat, site.Lon)
	if distance > MaxCollectDistance {
		s.metrics.ObserveCollect(metrics.OutcomeTooFar, distance)
		return nil, &TooFarError{Distance: distance, MaxDistance: MaxCollectDistance}
	}

	// Checked up front for a clean error; the unique index below is what
	// actually settles races.
	exists, err := s.store.Exists(ctx, userID, siteID)
	if err != nil {
		return nil, s.fail(ctx, "check_footprint", userID, siteID, distance, err)
	}
	if exists {
		s.metrics.ObserveCollect(metrics.OutcomeAlreadyCollected, distance)
		return nil, ErrAlreadyCollected
	}

	fp := &models.Footprint{
		ID:          uuid.New(),
		UserID:      userID,
		SiteID:      siteID,
		CollectedAt: s.now().UTC(),
		UserLat:     *lat,
		UserLon:     *lon,
		Distance:    distance,
	}
	if err := s.store.Insert(ctx, fp); err != nil {
		if errors.Is(err, ErrDuplicate) {
			s.metrics.ObserveCollect(metrics.OutcomeAlreadyCollected, distance)
			return nil, ErrAlreadyCollected
		}
		return nil, s.fail(ctx, "insert_footprint", userID, siteID, distance, err)
	}

	s.metrics.ObserveCollect(metrics.OutcomeAccepted, distance)
	slog.InfoContext(ctx, "site collected", "user_id", userID.String(), "site_id", siteID, "distance", distance)

	result := &CollectResult{Distance: distance, Footprint: fp}
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "stats after collect failed",
			"action", "collect_stats", "user_id", userID.String(), "site_id", siteID, "error", err)
		return result, nil
	}
	result.Stats = stats
	return result, nil
}

// Stats recomputes the user's progress snapshot from current footprints.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	total, err := s.store.CountByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure("count_footprints", err)
	}
	totalSites, err := s.sites.CountSites(ctx)
	if err != nil {
		return nil, storageFailure("count_sites", err)
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, storageFailure("list_categories", err)
	}
	counts, err := s.store.CountByCategoryForUser(ctx, userID)
	if err != nil {
		return nil, storageFailure("count_by_category", err)
	}
	return BuildStats(total, totalSites, categories, counts, s.achievements), nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]View, error) {
	views, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure("list_footprints", err)
	}
	return views, nil
}

func (s *Service) Check(ctx context.Context, userID uuid.UUID, siteID uint) (*CheckResult, error) {
	fp, err := s.store.Get(ctx, userID, siteID)
	if errors.Is(err, ErrFootprintNotFound) {
		return &CheckResult{Collected: false}, nil
	}
	if err != nil {
		return nil, storageFailure("get_footprint", err)
	}
	return &CheckResult{
		Collected:   true,
		CollectedAt: &fp.CollectedAt,
		Distance:    &fp.Distance,
	}, nil
}

// Remove deletes the footprint for the pair so it can be collected again.
func (s *Service) Remove(ctx context.Context, userID uuid.UUID, siteID uint) error {
	existed, err := s.store.DeleteOne(ctx, userID, siteID)
	if err != nil {
		return storageFailure("delete_footprint", err)
	}
	if !existed {
		return ErrFootprintNotFound
	}
	slog.InfoContext(ctx, "footprint removed", "user_id", userID.String(), "site_id", siteID)
	return nil
}

func (s *Service) fail(ctx context.Context, op string, userID uuid.UUID, siteID uint, distance int, err error) error {
	s.metrics.ObserveCollect(metrics.OutcomeStorageFailure, distance)
	slog.ErrorContext(ctx, "collect failed",
		"action", op, "user_id", userID.String(), "site_id", siteID, "error", err)
	return storageFailure(op, err)
}
