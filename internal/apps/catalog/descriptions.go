package catalog

var defaultDescriptions = map[string]string{
	CategoryTheatre:    "A performing arts venue in Chemnitz offering theater performances, concerts, and cultural events. Experience the rich cultural life of the city.",
	CategoryMuseum:     "A cultural institution in Chemnitz preserving and displaying collections of historical, artistic, and scientific significance. Discover the heritage and culture of the region.",
	CategoryPublicArt:  "A public artwork in Chemnitz contributing to the city's cultural landscape. This installation enhances public spaces and showcases local or international artistic expression.",
	CategoryRestaurant: "A dining establishment in Chemnitz offering culinary experiences. Enjoy local and international cuisine in this restaurant.",
}

const fallbackDescription = "A cultural point of interest in Chemnitz worth exploring."

// DefaultDescription is shown for sites imported without any description.
func DefaultDescription(category string) string {
	if d, ok := defaultDescriptions[category]; ok {
		return d
	}
	return fallbackDescription
}

func (v *SiteView) fillDescription() {
	if v.Description == "" {
		v.Description = DefaultDescription(v.Category)
	}
}
