// Package models defines the catalog, query and search result data structures.
package models

import "encoding/json"

// CatalogItem is one searchable catalog entry after alias resolution.
// Name and Link are already resolved from their aliased source fields.
type CatalogItem struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Link        *string         `json:"link"`
	Price       json.RawMessage `json:"price,omitempty"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Featured    bool            `json:"featured"`
}

// LinkOrEmpty returns the item link, or "" when the item has none.
func (it *CatalogItem) LinkOrEmpty() string {
	if it.Link == nil {
		return ""
	}
	return *it.Link
}
