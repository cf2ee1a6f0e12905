package catalog

import (
	goslug "github.com/gosimple/slug"
	"github.com/hyperjump/busca/internal/models"
)

// SlugLinks gives every item without a link a product page link built from a
// slug of its name, and returns how many items it changed. Items whose name
// yields no slug stay unlinked. Links that came from the source are never touched.
func SlugLinks(items []models.CatalogItem) int {
	n := 0
	for i := range items {
		if items[i].LinkOrEmpty() != "" {
			continue
		}
		s := goslug.Make(items[i].Name)
		if s == "" {
			continue
		}
		link := productPathPrefix + s
		items[i].Link = &link
		n++
	}
	return n
}
