// Package integration provides end-to-end tests (real catalog files, SQLite and HTTP).
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/busca/internal/catalog"
	"github.com/hyperjump/busca/internal/config"
	"github.com/hyperjump/busca/internal/models"
	"github.com/hyperjump/busca/internal/search"
	"github.com/hyperjump/busca/internal/server"
	"github.com/hyperjump/busca/internal/storage"
	"go.uber.org/zap"
)

const catalogDoc = `{
  "products": [
    {"id": 10, "title": "Café com Leite", "url": "/p/cafe-com-leite", "price": 12.5},
    {"id": 11, "nome": "Caneca Azul", "slug": "caneca-azul", "destaque": false},
    {"id": 12, "titulo": "Pão de Açúcar", "link": "/p/pao"},
    {"id": 13, "nome": ""},
    "not an item"
  ]
}`

func getJSON(t *testing.T, h http.Handler, target string, out interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", target, w.Code)
	}
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
}

func TestIntegration_FileToHTTP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "produtos.json")
	if err := os.WriteFile(path, []byte(catalogDoc), 0600); err != nil {
		t.Fatal(err)
	}

	store := catalog.NewStore()
	loader := catalog.NewLoader(store, &catalog.FileSource{Path: path}, zap.NewNop())
	engine := search.NewEngine(store, &config.SearchConfig{ResultsPage: "/busca"}, zap.NewNop())
	h := server.NewServer(engine, loader, &config.ServerConfig{}, zap.NewNop()).Routes()

	var inline models.InlineResponse
	getJSON(t, h, "/api/v1/search?q=com", &inline)
	if inline.State != models.StateLoading {
		t.Fatalf("before load: state %q", inline.State)
	}

	loader.Reload(context.Background())

	getJSON(t, h, "/api/v1/search?q="+url.QueryEscape("ACUCAR"), &inline)
	if inline.State != models.StateResults || len(inline.Records) != 1 {
		t.Fatalf("after load: %+v", inline)
	}
	rec := inline.Records[0]
	if rec.ID != "12" || rec.NameMarkup != "Pão de <mark>Açúcar</mark>" || rec.Link == nil || *rec.Link != "/p/pao" {
		t.Errorf("record = %+v", rec)
	}
	if inline.ResultsURL != "/busca?q=ACUCAR" {
		t.Errorf("results_url = %q", inline.ResultsURL)
	}

	getJSON(t, h, "/api/v1/search?q=com", &inline)
	if len(inline.Records) != 1 || inline.Records[0].NameMarkup != "Café <mark>com</mark> Leite" {
		t.Errorf("com: %+v", inline.Records)
	}

	var results models.ResultsResponse
	getJSON(t, h, "/api/v1/results?q=ca", &results)
	if results.Total != 3 || results.Cards[0].ID != "10" || results.Cards[1].ID != "11" || results.Cards[2].ID != "12" {
		t.Errorf("results = %+v", results)
	}
	if string(results.Cards[0].Price) != "12.5" {
		t.Errorf("price = %s", results.Cards[0].Price)
	}

	getJSON(t, h, "/api/v1/results?q=cafe", &results)
	if results.State != models.StateNoResults {
		t.Errorf("results filter should not fold accents, got %q", results.State)
	}

	var featured struct {
		Cards []*models.CardRecord `json:"cards"`
	}
	getJSON(t, h, "/api/v1/featured", &featured)
	for _, c := range featured.Cards {
		if c.ID == "11" {
			t.Error("item with destaque=false should not be featured")
		}
	}
}

func TestIntegration_UnreachableSourceDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	store := catalog.NewStore()
	loader := catalog.NewLoader(store, &catalog.HTTPSource{URL: ts.URL}, zap.NewNop())
	loader.Reload(context.Background())
	engine := search.NewEngine(store, nil, zap.NewNop())

	if resp := engine.Inline("cafe"); resp.State != models.StateEmptyCatalog {
		t.Errorf("inline state = %q, want empty_catalog", resp.State)
	}
	if resp := engine.Results("cafe"); resp.State != models.StateNoResults {
		t.Errorf("results state = %q, want no_results", resp.State)
	}
}

func TestIntegration_SQLiteFallback(t *testing.T) {
	dir := t.TempDir()
	items, err := catalog.Parse([]byte(catalogDoc))
	if err != nil {
		t.Fatal(err)
	}
	db, err := storage.NewSQLiteStorage(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.ReplaceItems(context.Background(), items); err != nil {
		t.Fatal(err)
	}

	src := catalog.FallbackSource{&catalog.FileSource{Path: filepath.Join(dir, "missing.json")}, db}
	store := catalog.NewStore()
	c := catalog.NewLoader(store, src, zap.NewNop()).Reload(context.Background())
	if c.Len() != len(items) {
		t.Fatalf("loaded %d items, want %d", c.Len(), len(items))
	}
	got := search.Rank(c.Items(), "caneca")
	if len(got) != 1 || got[0].Item.Link == nil || *got[0].Item.Link != "/produto/caneca-azul" {
		t.Errorf("rank after sqlite round trip: %+v", got)
	}
}
