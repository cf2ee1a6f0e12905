// Package storage defines the persistence interface for an imported catalog.
package storage

import (
	"context"

	"github.com/hyperjump/busca/internal/models"
)

// Storage persists a catalog snapshot so it can be served without the
// original JSON document. It is a catalog source, not a search index.
type Storage interface {
	// ReplaceItems swaps the stored catalog for items, keeping their order.
	ReplaceItems(ctx context.Context, items []models.CatalogItem) error
	// ListItems returns the stored catalog in import order.
	ListItems(ctx context.Context) ([]models.CatalogItem, error)
	CountItems(ctx context.Context) (int64, error)

	Close() error
}
