package footprint

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/culturemap/culturemap-backend/internal/database/dbtest"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStore_Integration(t *testing.T) {
	db := dbtest.Open(t)
	store := NewGormStore(db)
	ctx := context.Background()

	user := dbtest.CreateUser(t, db)
	site := dbtest.CreateSite(t, db, siteLat, siteLon)

	exists, err := store.Exists(ctx, user.ID, site.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	fp := &models.Footprint{
		ID:          uuid.New(),
		UserID:      user.ID,
		SiteID:      site.ID,
		CollectedAt: time.Now().UTC(),
		UserLat:     siteLat,
		UserLon:     siteLon,
		Distance:    12,
	}
	require.NoError(t, store.Insert(ctx, fp))

	dup := *fp
	dup.ID = uuid.New()
	assert.ErrorIs(t, store.Insert(ctx, &dup), ErrDuplicate)

	n, err := store.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := store.CountByCategoryForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{site.CategoryID: 1}, counts)

	views, err := store.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, site.Name, views[0].Name)
	assert.Equal(t, 12, views[0].Distance)

	got, err := store.Get(ctx, user.ID, site.ID)
	require.NoError(t, err)
	assert.Equal(t, fp.ID, got.ID)

	removed, err := store.DeleteOne(ctx, user.ID, site.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteOne(ctx, user.ID, site.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.Get(ctx, user.ID, site.ID)
	assert.ErrorIs(t, err, ErrFootprintNotFound)
}

func TestGormStore_ConcurrentInsert(t *testing.T) {
	db := dbtest.Open(t)
	store := NewGormStore(db)
	user := dbtest.CreateUser(t, db)
	site := dbtest.CreateSite(t, db, siteLat, siteLon)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Insert(context.Background(), &models.Footprint{
				ID:          uuid.New(),
				UserID:      user.ID,
				SiteID:      site.ID,
				CollectedAt: time.Now().UTC(),
			})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrDuplicate):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}
