package importer

import (
	"strconv"
	"strings"

	"github.com/culturemap/culturemap-backend/internal/apps/catalog"
)

type selector struct {
	key, value string
	category   string
}

// Order matters: the first matching selector decides the category.
var selectors = []selector{
	{key: "amenity", value: "theatre", category: catalog.CategoryTheatre},
	{key: "tourism", value: "museum", category: catalog.CategoryMuseum},
	{key: "tourism", value: "artwork", category: catalog.CategoryPublicArt},
	{key: "amenity", value: "restaurant", category: catalog.CategoryRestaurant},
}

// Place is an element ready to be stored as a site.
type Place struct {
	OsmID       string
	Name        string
	Address     string
	Lat         float64
	Lon         float64
	Category    string
	Description string
}

// Extract turns Overpass elements into places. Elements without a name,
// coordinates or a known category are counted as skipped. Duplicate OSM ids
// keep their first occurrence.
func Extract(resp *Response) (places []Place, skipped int) {
	nodes := make(map[int64]Point)
	for _, el := range resp.Elements {
		if el.Type == "node" && el.Lat != nil && el.Lon != nil {
			nodes[el.ID] = Point{Lat: *el.Lat, Lon: *el.Lon}
		}
	}

	seen := make(map[string]bool)
	for _, el := range resp.Elements {
		// Bare member nodes of ways.
		if len(el.Tags) == 0 {
			continue
		}

		name := el.Tags["name"]
		category := categoryFor(el.Tags)
		pt, ok := locate(el, nodes)
		if name == "" || category == "" || !ok {
			skipped++
			continue
		}

		osmID := el.Type + "/" + strconv.FormatInt(el.ID, 10)
		if seen[osmID] {
			continue
		}
		seen[osmID] = true

		places = append(places, Place{
			OsmID:       osmID,
			Name:        name,
			Address:     address(el.Tags),
			Lat:         pt.Lat,
			Lon:         pt.Lon,
			Category:    category,
			Description: describe(category, el.Tags),
		})
	}
	return places, skipped
}

func categoryFor(tags map[string]string) string {
	for _, sel := range selectors {
		if tags[sel.key] == sel.value {
			return sel.category
		}
	}
	return ""
}

// locate returns the element's own position, the server-provided center,
// or the mean of its member nodes that are present in the response.
func locate(el Element, nodes map[int64]Point) (Point, bool) {
	if el.Lat != nil && el.Lon != nil {
		return Point{Lat: *el.Lat, Lon: *el.Lon}, true
	}
	if el.Center != nil {
		return *el.Center, true
	}
	if el.Type != "way" {
		return Point{}, false
	}

	var sum Point
	n := 0
	for _, id := range el.Nodes {
		if p, ok := nodes[id]; ok {
			sum.Lat += p.Lat
			sum.Lon += p.Lon
			n++
		}
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{Lat: sum.Lat / float64(n), Lon: sum.Lon / float64(n)}, true
}

func address(tags map[string]string) string {
	var parts []string
	for _, key := range []string{"addr:street", "addr:housenumber", "addr:postcode", "addr:city"} {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
