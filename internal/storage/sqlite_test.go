package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/busca/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_ReplaceAndList(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	link := "/produto/caneca"
	items := []models.CatalogItem{
		{ID: "1", Name: "Caneca", Link: &link, Price: []byte(`19.9`), Image: "c.png", Description: "Cerâmica", Featured: true},
		{Name: "Sem id", Featured: false},
		{ID: "3", Name: "Café Especial", Price: []byte(`"R$ 30"`), Featured: true},
	}
	if err := store.ReplaceItems(ctx, items); err != nil {
		t.Fatal(err)
	}

	got, err := store.ListItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d items", len(got))
	}
	if got[0].ID != "1" || got[0].Name != "Caneca" || got[0].Link == nil || *got[0].Link != link {
		t.Errorf("unexpected item 0: %+v", got[0])
	}
	if string(got[0].Price) != "19.9" || got[0].Image != "c.png" || got[0].Description != "Cerâmica" || !got[0].Featured {
		t.Errorf("attributes not preserved: %+v", got[0])
	}
	if got[1].ID != "" || got[1].Link != nil || got[1].Price != nil || got[1].Featured {
		t.Errorf("unexpected item 1: %+v", got[1])
	}
	if got[2].Name != "Café Especial" || string(got[2].Price) != `"R$ 30"` {
		t.Errorf("unexpected item 2: %+v", got[2])
	}

	n, err := store.CountItems(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountItems = %d, %v", n, err)
	}
}

func TestSQLiteStorage_ReplaceDropsPrevious(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	if err := store.ReplaceItems(ctx, []models.CatalogItem{{Name: "A"}, {Name: "B"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceItems(ctx, []models.CatalogItem{{Name: "C"}}); err != nil {
		t.Fatal(err)
	}
	got, err := store.ListItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "C" {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteStorage_Fetch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	items, err := store.Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("empty database should yield no items, got %d", len(items))
	}
	if err := store.ReplaceItems(ctx, []models.CatalogItem{{Name: "Blue Mug"}, {Name: "Red Mug"}}); err != nil {
		t.Fatal(err)
	}
	items, err = store.Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "Blue Mug" || items[1].Name != "Red Mug" {
		t.Errorf("order not preserved: %+v", items)
	}
	if store.String() == "" {
		t.Error("String() should describe the database")
	}
}

func TestDatabaseSizeBytes(t *testing.T) {
	store := newTestStorage(t)
	if err := store.ReplaceItems(context.Background(), []models.CatalogItem{{Name: "A"}}); err != nil {
		t.Fatal(err)
	}
	n, err := DatabaseSizeBytes(store.path)
	if err != nil {
		t.Fatal(err)
	}
	if n <= 0 {
		t.Errorf("expected positive size, got %d", n)
	}
	n, err = DatabaseSizeBytes(filepath.Join(t.TempDir(), "missing.db"))
	if err != nil || n != 0 {
		t.Errorf("missing database: got %d, %v", n, err)
	}
}
