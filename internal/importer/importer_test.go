package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/culturemap/culturemap-backend/internal/apps/catalog"
	"github.com/culturemap/culturemap-backend/internal/database/dbtest"
	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": 50.84, "lon": 12.93, "tags": {
      "amenity": "theatre", "name": "Opernhaus", "capacity": "720",
      "addr:street": "Theaterplatz", "addr:housenumber": "2",
      "addr:postcode": "09111", "addr:city": "Chemnitz"}},
    {"type": "way", "id": 10, "nodes": [100, 101, 102], "tags": {
      "tourism": "museum", "name": "Kunstsammlungen",
      "description": "Local art", "description:en": "Art collections"}},
    {"type": "node", "id": 2, "lat": 50.1, "lon": 12.1, "tags": {"amenity": "restaurant"}},
    {"type": "node", "id": 3, "lat": 50.2, "lon": 12.2, "tags": {"shop": "bakery", "name": "Bäcker"}},
    {"type": "way", "id": 11, "nodes": [999], "tags": {"tourism": "artwork", "name": "Nischel"}},
    {"type": "node", "id": 1, "lat": 50.84, "lon": 12.93, "tags": {"amenity": "theatre", "name": "Opernhaus"}},
    {"type": "node", "id": 4, "lat": 0, "lon": 0, "tags": {"tourism": "artwork", "name": "Null Island"}},
    {"type": "node", "id": 100, "lat": 50.0, "lon": 12.0},
    {"type": "node", "id": 101, "lat": 51.0, "lon": 13.0}
  ]
}`

func decodeFixture(t *testing.T) *Response {
	t.Helper()
	resp, err := Decode(strings.NewReader(fixture))
	require.NoError(t, err)
	return resp
}

func TestExtract(t *testing.T) {
	places, skipped := Extract(decodeFixture(t))

	require.Len(t, places, 3)
	assert.Equal(t, 3, skipped)

	theatre := places[0]
	assert.Equal(t, "node/1", theatre.OsmID)
	assert.Equal(t, catalog.CategoryTheatre, theatre.Category)
	assert.Equal(t, "Theaterplatz 2 09111 Chemnitz", theatre.Address)
	assert.Equal(t, 50.84, theatre.Lat)

	museum := places[1]
	assert.Equal(t, "way/10", museum.OsmID)
	assert.Equal(t, catalog.CategoryMuseum, museum.Category)
	assert.InDelta(t, 50.5, museum.Lat, 1e-9)
	assert.InDelta(t, 12.5, museum.Lon, 1e-9)
	assert.Equal(t, "Art collections", museum.Description)
	assert.Empty(t, museum.Address)

	zero := places[2]
	assert.Equal(t, "node/4", zero.OsmID)
	assert.Equal(t, 0.0, zero.Lat)
	assert.Equal(t, 0.0, zero.Lon)
}

func TestExtract_UsesServerCenter(t *testing.T) {
	resp := &Response{Elements: []Element{{
		Type:   "way",
		ID:     7,
		Center: &Point{Lat: 50.83, Lon: 12.92},
		Tags:   map[string]string{"amenity": "restaurant", "name": "Ratskeller"},
	}}}

	places, skipped := Extract(resp)

	require.Len(t, places, 1)
	assert.Zero(t, skipped)
	assert.Equal(t, 50.83, places[0].Lat)
	assert.Equal(t, catalog.CategoryRestaurant, places[0].Category)
}

func TestDescribe_Generated(t *testing.T) {
	desc := describe(catalog.CategoryTheatre, map[string]string{"capacity": "720"})

	assert.True(t, strings.HasPrefix(desc, "A performing arts venue in Chemnitz with a capacity of 720 seats."))
	assert.True(t, strings.HasSuffix(desc, "\n\nCapacity: 720 seats"))
}

func TestDescribe_PrefersMappedDescription(t *testing.T) {
	desc := describe(catalog.CategoryMuseum, map[string]string{"description": "Städtisches Museum"})
	assert.Equal(t, "Städtisches Museum", desc)

	desc = describe(catalog.CategoryMuseum, map[string]string{
		"description": "Städtisches Museum", "description:en": "City museum",
	})
	assert.Equal(t, "City museum", desc)
}

func TestDescribe_Details(t *testing.T) {
	desc := describe(catalog.CategoryPublicArt, map[string]string{
		"description":  "Bronze head",
		"artist_name":  "Lew Kerbel",
		"wikipedia:en": "en:Karl Marx Monument",
		"phone":        "+49 371 0",
	})

	assert.Equal(t, "Bronze head\n\n"+
		"Phone: +49 371 0\n"+
		"More info: https://en.wikipedia.org/wiki/Karl_Marx_Monument\n"+
		"Artist: Lew Kerbel", desc)
}

func TestDescribe_RestaurantDiet(t *testing.T) {
	desc := describe(catalog.CategoryRestaurant, map[string]string{
		"cuisine": "italian", "diet:vegetarian": "yes", "diet:vegan": "yes",
	})

	assert.Contains(t, desc, "serving italian cuisine with vegetarian options and vegan-friendly dishes.")
	assert.Contains(t, desc, "Cuisine: italian")
}

func TestDescribe_UnknownCategoryFallsBack(t *testing.T) {
	assert.Equal(t, catalog.DefaultDescription("Other"), describe("Other", nil))
}

func TestQuery(t *testing.T) {
	q := Query("Chemnitz")

	assert.Contains(t, q, `area["name"="Chemnitz"]["boundary"="administrative"]->.a;`)
	assert.Contains(t, q, `node(area.a)["amenity"="theatre"];`)
	assert.Contains(t, q, `way(area.a)["tourism"="artwork"];`)
	assert.True(t, strings.HasSuffix(q, "out skel qt;\n"))
}

func TestClientFetch(t *testing.T) {
	query := Query("Chemnitz")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, query, r.FormValue("data"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Fetch(context.Background(), query)

	require.NoError(t, err)
	assert.Len(t, resp.Elements, 9)
}

func TestClientFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "[out:json];")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSave_Integration(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, catalog.SeedCategories(db))

	osmID := "it/import/" + uuid.New().String()[:8]
	t.Cleanup(func() { db.Where("osm_id = ?", osmID).Delete(&models.Site{}) })

	ctx := context.Background()
	place := Place{
		OsmID:    osmID,
		Name:     "Schauspielhaus",
		Lat:      50.83,
		Lon:      12.92,
		Category: catalog.CategoryTheatre,
	}

	res, err := Save(ctx, db, []Place{place, {OsmID: "it/unknown", Name: "x", Category: "Zoo"}})
	require.NoError(t, err)
	assert.Equal(t, Result{Upserted: 1, Skipped: 1}, res)

	var first models.Site
	require.NoError(t, db.Where("osm_id = ?", osmID).First(&first).Error)

	place.Name = "Schauspielhaus Chemnitz"
	_, err = Save(ctx, db, []Place{place})
	require.NoError(t, err)

	var second models.Site
	require.NoError(t, db.Where("osm_id = ?", osmID).First(&second).Error)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Schauspielhaus Chemnitz", second.Name)
}
