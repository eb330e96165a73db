package footprint

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/culturemap/culturemap-backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	siteLat = 50.8322
	siteLon = 12.9253
)

type fixture struct {
	catalog *fakeCatalog
	store   *fakeStore
	metrics *metrics.Metrics
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := newFakeCatalog()
	catalog.addSite(1, 1, siteLat, siteLon)
	catalog.addSite(2, 1, siteLat+0.01, siteLon)
	catalog.addSite(3, 2, siteLat, siteLon+0.01)
	store := newFakeStore(catalog)
	m := metrics.New()
	svc := NewService(store, catalog, catalog, DefaultAchievements(), m)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{catalog: catalog, store: store, metrics: m, svc: svc}
}

func (f *fixture) outcomes(outcome string) float64 {
	return testutil.ToFloat64(f.metrics.CollectAttempts.WithLabelValues(outcome))
}

func TestCollect_AcceptsAtSite(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	res, err := f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Distance)
	assert.Equal(t, user, res.Footprint.UserID)
	assert.Equal(t, uint(1), res.Footprint.SiteID)
	assert.Equal(t, siteLat, res.Footprint.UserLat)
	require.NotNil(t, res.Stats)
	assert.Equal(t, int64(1), res.Stats.Total)
	assert.Equal(t, int64(3), res.Stats.TotalSites)
	assert.Equal(t, 33.3, res.Stats.Percentage)
	assert.Equal(t, float64(1), f.outcomes(metrics.OutcomeAccepted))
}

func TestCollect_DistanceBoundary(t *testing.T) {
	tests := []struct {
		name   string
		dLat   float64
		want   int
		tooFar bool
	}{
		{"just inside", 0.00359, 399, false},
		{"exactly 400", 0.0035972, 400, false},
		{"just outside", 0.0036062, 401, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			res, err := f.svc.Collect(context.Background(), uuid.New(), 1, ptr(siteLat+tt.dLat), ptr(siteLon))
			if !tt.tooFar {
				require.NoError(t, err)
				assert.Equal(t, tt.want, res.Distance)
				return
			}

			require.ErrorIs(t, err, ErrTooFar)
			var tooFar *TooFarError
			require.True(t, errors.As(err, &tooFar))
			assert.Equal(t, tt.want, tooFar.Distance)
			assert.Equal(t, MaxCollectDistance, tooFar.MaxDistance)
			assert.Empty(t, f.store.rows)
		})
	}
}

func TestCollect_FarAway(t *testing.T) {
	f := newFixture(t)

	// Site 2 is about 1.1 km north of the user.
	_, err := f.svc.Collect(context.Background(), uuid.New(), 2, ptr(siteLat), ptr(siteLon))

	var tooFar *TooFarError
	require.True(t, errors.As(err, &tooFar))
	assert.InDelta(t, 1112, tooFar.Distance, 2)
	assert.Equal(t, float64(1), f.outcomes(metrics.OutcomeTooFar))
}

func TestCollect_MissingLocation(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	_, err := f.svc.Collect(context.Background(), user, 1, nil, ptr(siteLon))
	assert.ErrorIs(t, err, ErrMissingLocation)

	_, err = f.svc.Collect(context.Background(), user, 1, ptr(siteLat), nil)
	assert.ErrorIs(t, err, ErrMissingLocation)

	// Checked before the site lookup.
	_, err = f.svc.Collect(context.Background(), user, 999, nil, nil)
	assert.ErrorIs(t, err, ErrMissingLocation)

	assert.Empty(t, f.store.rows)
	assert.Equal(t, float64(3), f.outcomes(metrics.OutcomeMissingLocation))
}

func TestCollect_ZeroCoordinateIsALocation(t *testing.T) {
	f := newFixture(t)
	f.catalog.addSite(10, 1, 0, 0.001)

	res, err := f.svc.Collect(context.Background(), uuid.New(), 10, ptr(0), ptr(0))
	require.NoError(t, err)
	assert.Equal(t, 111, res.Distance)
}

func TestCollect_SiteNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Collect(context.Background(), uuid.New(), 42, ptr(siteLat), ptr(siteLon))
	assert.ErrorIs(t, err, ErrSiteNotFound)
	assert.Equal(t, float64(1), f.outcomes(metrics.OutcomeSiteNotFound))
}

func TestCollect_AlreadyCollected(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	_, err := f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	require.NoError(t, err)

	_, err = f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	assert.ErrorIs(t, err, ErrAlreadyCollected)
	assert.Len(t, f.store.rows, 1)

	// Another user may still collect the same site.
	_, err = f.svc.Collect(context.Background(), uuid.New(), 1, ptr(siteLat), ptr(siteLon))
	assert.NoError(t, err)
}

func TestCollect_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyCollected):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, rejected)
	assert.Len(t, f.store.rows, 1)
}

func TestCollect_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.insertErr = errors.New("connection reset")

	_, err := f.svc.Collect(context.Background(), uuid.New(), 1, ptr(siteLat), ptr(siteLon))
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.NotErrorIs(t, err, ErrAlreadyCollected)
	assert.Equal(t, float64(1), f.outcomes(metrics.OutcomeStorageFailure))
}

func TestCollect_StatsFailureKeepsFootprint(t *testing.T) {
	f := newFixture(t)
	f.store.countErr = errors.New("timeout")
	user := uuid.New()

	res, err := f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	require.NoError(t, err)
	assert.Nil(t, res.Stats)
	assert.Len(t, f.store.rows, 1)
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	res, err := f.svc.Check(context.Background(), user, 1)
	require.NoError(t, err)
	assert.False(t, res.Collected)
	assert.Nil(t, res.CollectedAt)
	assert.Nil(t, res.Distance)

	_, err = f.svc.Collect(context.Background(), user, 1, ptr(siteLat+0.001), ptr(siteLon))
	require.NoError(t, err)

	res, err = f.svc.Check(context.Background(), user, 1)
	require.NoError(t, err)
	assert.True(t, res.Collected)
	require.NotNil(t, res.CollectedAt)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), *res.CollectedAt)
	require.NotNil(t, res.Distance)
	assert.Equal(t, 111, *res.Distance)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	err := f.svc.Remove(context.Background(), user, 1)
	assert.ErrorIs(t, err, ErrFootprintNotFound)

	_, err = f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(context.Background(), user, 1))

	// Removing a footprint makes the site collectable again.
	_, err = f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	assert.NoError(t, err)
}

func TestStats_PerCategory(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	_, err := f.svc.Collect(context.Background(), user, 1, ptr(siteLat), ptr(siteLon))
	require.NoError(t, err)
	_, err = f.svc.Collect(context.Background(), user, 3, ptr(siteLat), ptr(siteLon+0.01))
	require.NoError(t, err)

	stats, err := f.svc.Stats(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Total)
	require.Len(t, stats.CategoryStats, 4)
	assert.Equal(t, int64(1), stats.CategoryStats[0].Count)
	assert.Equal(t, int64(1), stats.CategoryStats[1].Count)
	assert.Equal(t, int64(0), stats.CategoryStats[2].Count)

	// Other users' footprints are not counted.
	other, err := f.svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), other.Total)
}
