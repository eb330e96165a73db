package importer

import (
	"strings"

	"github.com/culturemap/culturemap-backend/internal/apps/catalog"
)

// describe prefers the mapped description, then a text generated from the
// category tags, and appends one line per known detail tag.
func describe(category string, tags map[string]string) string {
	desc := tags["description:en"]
	if desc == "" {
		desc = tags["description"]
	}
	if desc == "" {
		desc = generated(category, tags)
	}

	if info := details(category, tags); len(info) > 0 {
		if desc != "" {
			desc += "\n\n"
		}
		desc += strings.Join(info, "\n")
	}

	if desc == "" {
		return catalog.DefaultDescription(category)
	}
	return desc
}

func generated(category string, tags map[string]string) string {
	var b strings.Builder
	switch category {
	case catalog.CategoryTheatre:
		b.WriteString("A performing arts venue in Chemnitz")
		if v := tags["theatre:type"]; v != "" {
			b.WriteString(" specializing in " + v)
		}
		if v := tags["capacity"]; v != "" {
			b.WriteString(" with a capacity of " + v + " seats")
		}
		b.WriteString(". This theater offers various cultural performances including plays, concerts, and other live entertainment.")
	case catalog.CategoryMuseum:
		b.WriteString("A cultural institution in Chemnitz")
		if v := tags["museum"]; v != "" {
			b.WriteString(" featuring " + v + " exhibitions")
		}
		if v := tags["collection"]; v != "" {
			b.WriteString(" with collections focusing on " + v)
		}
		b.WriteString(". This museum preserves and displays artifacts, artworks, and objects of cultural, historical, or scientific importance.")
	case catalog.CategoryPublicArt:
		b.WriteString("A public art installation in Chemnitz")
		if v := tags["artwork_type"]; v != "" {
			b.WriteString(" in the form of " + v)
		}
		if v := artist(tags); v != "" {
			b.WriteString(" created by " + v)
		}
		if v := tags["material"]; v != "" {
			b.WriteString(" made from " + v)
		}
		b.WriteString(". This artwork contributes to the city's cultural landscape and public space enhancement.")
	case catalog.CategoryRestaurant:
		b.WriteString("A dining establishment in Chemnitz")
		if v := tags["cuisine"]; v != "" {
			b.WriteString(" serving " + v + " cuisine")
		}
		if tags["diet:vegetarian"] == "yes" {
			b.WriteString(" with vegetarian options")
		}
		if tags["diet:vegan"] == "yes" {
			b.WriteString(" and vegan-friendly dishes")
		}
		b.WriteString(". Experience local and international flavors in this restaurant.")
	}
	return b.String()
}

func details(category string, tags map[string]string) []string {
	var info []string
	add := func(label, key string) {
		if v := tags[key]; v != "" {
			info = append(info, label+v)
		}
	}

	add("Opening hours: ", "opening_hours")
	add("Phone: ", "phone")
	add("Website: ", "website")
	if v := tags["wikipedia:en"]; v != "" {
		if _, title, ok := strings.Cut(v, ":"); ok {
			v = title
		}
		info = append(info, "More info: https://en.wikipedia.org/wiki/"+strings.ReplaceAll(v, " ", "_"))
	} else {
		add("Wikipedia: ", "wikipedia")
	}
	add("Operated by: ", "operator")
	add("Built in: ", "start_date")
	add("Architect: ", "architect")

	switch category {
	case catalog.CategoryRestaurant:
		add("Cuisine: ", "cuisine")
	case catalog.CategoryMuseum:
		add("Museum type: ", "museum")
		add("Collection: ", "collection")
	case catalog.CategoryTheatre:
		if v := tags["capacity"]; v != "" {
			info = append(info, "Capacity: "+v+" seats")
		}
		add("Theatre type: ", "theatre:type")
	case catalog.CategoryPublicArt:
		if v := artist(tags); v != "" {
			info = append(info, "Artist: "+v)
		}
		add("Material: ", "material")
		add("Artwork type: ", "artwork_type")
	}
	return info
}

func artist(tags map[string]string) string {
	if v := tags["artist_name"]; v != "" {
		return v
	}
	return tags["artist"]
}
