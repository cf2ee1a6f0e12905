package search

import (
	"strings"

	"github.com/hyperjump/busca/internal/models"
)

// Filter returns every item whose lowercased name contains the trimmed,
// lowercased term, in catalog order. Unlike Rank it does not fold diacritics,
// so "cafe" does not find "Café". An empty term matches nothing.
func Filter(items []models.CatalogItem, term string) []*models.CatalogItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []*models.CatalogItem
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), term) {
			out = append(out, &items[i])
		}
	}
	return out
}

// Featured returns the items marked for the featured shelf, in catalog order.
func Featured(items []models.CatalogItem) []*models.CatalogItem {
	var out []*models.CatalogItem
	for i := range items {
		if items[i].Featured {
			out = append(out, &items[i])
		}
	}
	return out
}
