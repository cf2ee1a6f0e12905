// Package catalog loads the searchable item catalog and holds it as shared
// read-only state. A Catalog value never changes after construction; reloads
// build a new one and swap it into the Store.
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/hyperjump/busca/internal/models"
)

// Catalog is an immutable snapshot of the item list plus its loaded flag.
type Catalog struct {
	items    []models.CatalogItem
	loaded   bool
	source   string
	loadedAt time.Time
}

// Pending returns a catalog that has not been loaded yet.
func Pending() *Catalog {
	return &Catalog{}
}

// New returns a loaded catalog holding items. items must not be modified afterwards.
func New(items []models.CatalogItem, source string) *Catalog {
	return &Catalog{
		items:    items,
		loaded:   true,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Items returns the catalog items in source order. Callers must not modify them.
func (c *Catalog) Items() []models.CatalogItem {
	return c.items
}

// Loaded reports whether the load finished, successfully or not.
func (c *Catalog) Loaded() bool {
	return c.loaded
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Source describes where the items came from.
func (c *Catalog) Source() string {
	return c.source
}

// LoadedAt returns when the catalog finished loading; zero while pending.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// Store holds the current catalog snapshot.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a store holding a pending catalog.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(Pending())
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Set replaces the current snapshot.
func (s *Store) Set(c *Catalog) {
	if c == nil {
		c = Pending()
	}
	s.current.Store(c)
}
