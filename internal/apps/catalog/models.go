package catalog

// Category names as stored in the categories table.
const (
	CategoryTheatre    = "Theatre"
	CategoryMuseum     = "Museum"
	CategoryPublicArt  = "Public Art"
	CategoryRestaurant = "Restaurant"
)

// SiteView is a site joined with its category for API responses.
type SiteView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description"`
	OsmID       string  `json:"osm_id"`
	CategoryID  uint    `json:"category_id"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
}

type SiteFilter struct {
	Category string
	Query    string
}

type CategorySiteCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Summary struct {
	SiteCount     int64               `json:"site_count"`
	UserCount     int64               `json:"user_count"`
	CategoryCount int64               `json:"category_count"`
	CategoryStats []CategorySiteCount `json:"category_stats"`
}
