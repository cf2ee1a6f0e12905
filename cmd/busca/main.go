// Package main is the busca CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/busca/internal/catalog"
	"github.com/hyperjump/busca/internal/cli"
	"github.com/hyperjump/busca/internal/config"
	"github.com/hyperjump/busca/internal/models"
	"github.com/hyperjump/busca/internal/search"
	"github.com/hyperjump/busca/internal/server"
	"github.com/hyperjump/busca/internal/storage"
	"github.com/hyperjump/busca/internal/watcher"
	"github.com/hyperjump/busca/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/busca/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "results":
		runResults()
	case "featured":
		runFeatured()
	case "import":
		runImport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("busca version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (catalog reloads, requests, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Requests issued before the first load completes see the loading state.
	go components.Loader.Reload(context.Background())

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if files := cfg.Catalog.FilePaths(); cfg.Catalog.WatchOrDefault() && len(files) > 0 {
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		loader := components.Loader
		watchSvc = watcher.NewWatcher(files, func(path string) {
			logger.Info("catalog file changed, reloading", zap.String("path", path))
			loader.Reload(watchCtx)
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("catalog watcher not started", zap.Error(err))
			watchSvc = nil
		}
	}

	srv := server.NewServer(components.Engine, components.Loader, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	if watchSvc != nil {
		watchSvc.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: busca %s [flags] <query>\n\n", fs.Name())
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
search ranks product names by word position and prefix (accent and case insensitive, top 10).
results lists every product whose name contains the term (case insensitive), in catalog order.

Examples:
  busca search cafe
  busca search "caneca azul"
  busca results --output json caneca
  busca search --server "" cafe      # load the catalog directly instead of asking the server
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

type queryFlags struct {
	fs         *flag.FlagSet
	configPath *string
	serverURL  *string
	output     *string
}

func newQueryFlags(name string) *queryFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	q := &queryFlags{
		fs:         fs,
		configPath: fs.String("config", defaultConfigPath, "config file path (for direct mode)"),
		serverURL:  fs.String("server", defaultServerURL, "server URL (empty = load the catalog directly)"),
		output:     fs.String("output", "text", "output format: text or json"),
	}
	fs.Usage = func() { printSearchUsage(fs) }
	return q
}

func runSearch() {
	q := newQueryFlags("search")
	_ = q.fs.Parse(searchArgsReorder(os.Args[2:]))
	queryStr := buildSearchQuery(q.fs.Args())
	format, err := parseOutputFormat(*q.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var response models.InlineResponse
	if *q.serverURL != "" {
		err = getJSON(apiURL(*q.serverURL, "/api/v1/search", queryStr), &response)
	} else {
		err = withDirectEngine(*q.configPath, func(e *search.Engine) {
			response = *e.Inline(queryStr)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteInline(os.Stdout, &response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// resultsTerm returns the term for the results view: positional args win, otherwise
// the q parameter of pageURL.
func resultsTerm(args []string, pageURL string) string {
	if term := buildSearchQuery(args); term != "" || pageURL == "" {
		return term
	}
	return search.TermFromURL(pageURL)
}

func runResults() {
	q := newQueryFlags("results")
	fromURL := q.fs.String("url", "", "read the term from the q parameter of a results page URL")
	_ = q.fs.Parse(searchArgsReorder(os.Args[2:]))
	term := resultsTerm(q.fs.Args(), *fromURL)
	format, err := parseOutputFormat(*q.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var response models.ResultsResponse
	if *q.serverURL != "" {
		err = getJSON(apiURL(*q.serverURL, "/api/v1/results", term), &response)
	} else {
		err = withDirectEngine(*q.configPath, func(e *search.Engine) {
			response = *e.Results(term)
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Results failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteResults(os.Stdout, &response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

type featuredResponse struct {
	Loaded bool                 `json:"loaded"`
	Cards  []*models.CardRecord `json:"cards"`
}

func runFeatured() {
	q := newQueryFlags("featured")
	_ = q.fs.Parse(os.Args[2:])
	format, err := parseOutputFormat(*q.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var response featuredResponse
	if *q.serverURL != "" {
		err = getJSON(strings.TrimRight(*q.serverURL, "/")+"/api/v1/featured", &response)
	} else {
		err = withDirectEngine(*q.configPath, func(e *search.Engine) {
			response.Cards, response.Loaded = e.Featured()
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Featured failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCards(os.Stdout, response.Cards, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	activate := fs.Bool("activate", false, "make the imported database the first catalog source and save the config")
	slugLinks := fs.Bool("slug-links", false, "link items that have no url/link/href/slug to /produto/<slug of name>")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: busca import [flags] <catalog-file-or-url>")
		os.Exit(1)
	}
	location := fs.Arg(0)

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	n, err := importCatalog(context.Background(), location, cfg, *slugLinks)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("catalog imported",
		zap.String("from", location),
		zap.String("database", cfg.Storage.DatabasePath),
		zap.Int("items", n),
	)
	fmt.Printf("Imported %d item(s) into %s\n", n, cfg.Storage.DatabasePath)

	if *activate && activateSQLite(&cfg.Catalog) {
		if err := config.Save(resolvedConfigPath, cfg); err != nil {
			fmt.Printf("Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog source %q enabled in %s\n", config.SQLiteSource, resolvedConfigPath)
	}
}

// importCatalog fetches the document at location and replaces the contents of the
// storage database with its items. Unlike a catalog load, a failing fetch is an error.
// With slugLinks, unlinked items get a link generated from their name before storing.
func importCatalog(ctx context.Context, location string, cfg *config.Config, slugLinks bool) (int, error) {
	items, err := catalog.FromLocation(location, cfg.Catalog.FetchTimeout()).Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if slugLinks {
		catalog.SlugLinks(items)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	if err := store.ReplaceItems(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// activateSQLite moves the sqlite source to the front of the source list. It reports
// whether the list changed.
func activateSQLite(c *config.CatalogConfig) bool {
	if len(c.Sources) > 0 && c.Sources[0] == config.SQLiteSource {
		return false
	}
	sources := []string{config.SQLiteSource}
	for _, s := range c.Sources {
		if s != config.SQLiteSource {
			sources = append(sources, s)
		}
	}
	c.Sources = sources
	return true
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Loaded        bool       `json:"loaded"`
	Items         int        `json:"items"`
	Source        string     `json:"source,omitempty"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	DatabasePath  string     `json:"database_path,omitempty"`
	DatabaseBytes *int64     `json:"database_bytes,omitempty"`
	ImportedItems *int64     `json:"imported_items,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the catalog directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		if err := getJSON(strings.TrimRight(*serverURL, "/")+"/api/v1/status", &status); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		err = withDirectEngine(*configPath, func(e *search.Engine) {
			c := e.Catalog()
			status.Loaded, status.Items, status.Source = c.Loaded(), c.Len(), c.Source()
			t := c.LoadedAt()
			status.LoadedAt = &t
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status.DatabasePath = cfg.Storage.DatabasePath
		if size, err := storage.DatabaseSizeBytes(cfg.Storage.DatabasePath); err == nil && size > 0 {
			status.DatabaseBytes = &size
			if st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath); err == nil {
				if n, err := st.CountItems(context.Background()); err == nil {
					status.ImportedItems = &n
				}
				_ = st.Close()
			}
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, &status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func writeStatusText(w io.Writer, status *statusResponse) {
	fmt.Fprintf(w, "loaded:          %t\n", status.Loaded)
	fmt.Fprintf(w, "items:           %d   # products in the active catalog\n", status.Items)
	if status.Source != "" {
		fmt.Fprintf(w, "source:          %s\n", status.Source)
	}
	if status.LoadedAt != nil {
		fmt.Fprintf(w, "loaded_at:       %s\n", status.LoadedAt.Format(time.RFC3339))
	}
	if status.DatabasePath != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# imported catalog")
		fmt.Fprintf(w, "database_path:   %s\n", status.DatabasePath)
		if status.DatabaseBytes != nil {
			fmt.Fprintf(w, "database_bytes:  %d\n", *status.DatabaseBytes)
		}
		if status.ImportedItems != nil {
			fmt.Fprintf(w, "imported_items:  %d\n", *status.ImportedItems)
		}
	}
}

// apiURL builds a GET URL for endpoint with the query in q.
func apiURL(serverURL, endpoint, query string) string {
	return strings.TrimRight(serverURL, "/") + endpoint + "?q=" + url.QueryEscape(query)
}

func getJSON(rawURL string, out interface{}) error {
	resp, err := http.Get(rawURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withDirectEngine loads the configured catalog synchronously and runs fn against it.
func withDirectEngine(configPath string, fn func(*search.Engine)) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()
	components.Loader.Reload(context.Background())
	fn(components.Engine)
	return nil
}

// Components holds initialized services.
type Components struct {
	Storage storage.Storage
	Store   *catalog.Store
	Loader  *catalog.Loader
	Engine  *search.Engine
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// buildSource turns the configured source list into one source. The sqlite entry
// reads db, which is nil when no sqlite source is configured.
func buildSource(cfg *config.CatalogConfig, db *storage.SQLiteStorage) catalog.Source {
	var sources catalog.FallbackSource
	for _, s := range cfg.Sources {
		if s == config.SQLiteSource {
			if db != nil {
				sources = append(sources, db)
			}
			continue
		}
		sources = append(sources, catalog.FromLocation(s, cfg.FetchTimeout()))
	}
	if len(sources) == 1 {
		return sources[0]
	}
	return sources
}

func usesSQLite(cfg *config.CatalogConfig) bool {
	for _, s := range cfg.Sources {
		if s == config.SQLiteSource {
			return true
		}
	}
	return false
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{}
	var db *storage.SQLiteStorage
	if usesSQLite(&cfg.Catalog) {
		var err error
		db, err = storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.Storage = db
	}

	c.Store = catalog.NewStore()
	c.Loader = catalog.NewLoader(c.Store, buildSource(&cfg.Catalog, db), logger)
	c.Engine = search.NewEngine(c.Store, &cfg.Search, logger)
	return c, nil
}

func printUsage() {
	fmt.Println(`busca - Catalog search with accent-insensitive ranking and highlighting

Usage:
  busca server [flags]             Start the HTTP server
  busca search [flags] <query>     Ranked, highlighted search (top 10)
  busca results [flags] <term>     Every product whose name contains term
  busca featured [flags]           List featured products
  busca import [flags] <source>    Import a catalog file or URL into SQLite
  busca status [flags]             Show catalog status
  busca version                    Show version
  busca help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/busca/config.yaml)
  --debug            Enable debug logging

Search/Results/Featured/Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to load the catalog directly.
  --output string    Output format: text or json (default: text)

Results Flags:
  --url string       Take the term from the q parameter of a results page URL

Import Flags:
  --config string    Config file path
  --activate         Put "sqlite" first in catalog.sources and save the config
  --slug-links       Link unlinked items to /produto/<slug of name>

Examples:
  busca server
  busca search cafe
  busca search --output json "caneca azul"
  busca results caneca
  busca results --url "./search.html?q=caneca%20azul"
  busca import --activate ./recursos/produtos.json
  busca import --slug-links https://loja.example/produtos.json
  busca status --server ""`)
}
