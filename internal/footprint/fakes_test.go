package footprint

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
)

type pairKey struct {
	user uuid.UUID
	site uint
}

// fakeCatalog serves sites and categories from memory.
type fakeCatalog struct {
	sites      map[uint]*models.Site
	categories []models.Category
	err        error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		sites: map[uint]*models.Site{},
		categories: []models.Category{
			{ID: 1, Name: "Museum", Color: "#1f77b4"},
			{ID: 2, Name: "Theatre", Color: "#ff7f0e"},
			{ID: 3, Name: "Public Art", Color: "#2ca02c"},
			{ID: 4, Name: "Restaurant", Color: "#d62728"},
		},
	}
}

func (f *fakeCatalog) addSite(id, categoryID uint, lat, lon float64) *models.Site {
	s := &models.Site{ID: id, Name: "Site", CategoryID: categoryID, Lat: lat, Lon: lon}
	f.sites[id] = s
	return s
}

func (f *fakeCatalog) FindSite(_ context.Context, id uint) (*models.Site, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sites[id]
	if !ok {
		return nil, ErrSiteNotFound
	}
	return s, nil
}

func (f *fakeCatalog) CountSites(_ context.Context) (int64, error) {
	return int64(len(f.sites)), nil
}

func (f *fakeCatalog) ListCategories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}

// fakeStore enforces (user, site) uniqueness in Insert the way the database
// index does.
type fakeStore struct {
	mu        sync.Mutex
	rows      map[pairKey]models.Footprint
	catalog   *fakeCatalog
	insertErr error
	countErr  error
}

func newFakeStore(catalog *fakeCatalog) *fakeStore {
	return &fakeStore{rows: map[pairKey]models.Footprint{}, catalog: catalog}
}

func (s *fakeStore) Exists(_ context.Context, userID uuid.UUID, siteID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[pairKey{userID, siteID}]
	return ok, nil
}

func (s *fakeStore) Insert(_ context.Context, fp *models.Footprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	k := pairKey{fp.UserID, fp.SiteID}
	if _, ok := s.rows[k]; ok {
		return ErrDuplicate
	}
	s.rows[k] = *fp
	return nil
}

func (s *fakeStore) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for k := range s.rows {
		if k.user == userID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountByCategoryForUser(_ context.Context, userID uuid.UUID) (map[uint]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uint]int64{}
	for k := range s.rows {
		if k.user != userID {
			continue
		}
		site, ok := s.catalog.sites[k.site]
		if !ok {
			return nil, errors.New("dangling footprint")
		}
		out[site.CategoryID]++
	}
	return out, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID uuid.UUID) ([]View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := []View{}
	for k, fp := range s.rows {
		if k.user != userID {
			continue
		}
		views = append(views, View{ID: fp.ID, CollectedAt: fp.CollectedAt, Distance: fp.Distance, SiteID: fp.SiteID})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CollectedAt.After(views[j].CollectedAt) })
	return views, nil
}

func (s *fakeStore) Get(_ context.Context, userID uuid.UUID, siteID uint) (*models.Footprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fp, ok := s.rows[pairKey{userID, siteID}]
	if !ok {
		return nil, ErrFootprintNotFound
	}
	return &fp, nil
}

func (s *fakeStore) DeleteOne(_ context.Context, userID uuid.UUID, siteID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := pairKey{userID, siteID}
	if _, ok := s.rows[k]; !ok {
		return false, nil
	}
	delete(s.rows, k)
	return true, nil
}

func ptr(f float64) *float64 { return &f }
