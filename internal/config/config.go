// Package config provides configuration loading and structs for the busca server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SQLiteSource is the catalog source name that reads the imported storage database.
const SQLiteSource = "sqlite"

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig says where the catalog document comes from.
type CatalogConfig struct {
	// Sources are tried in order until one loads: "sqlite" reads the storage
	// database, http(s) URLs are fetched, anything else is a file path.
	Sources             []string `yaml:"sources"`
	Watch               *bool    `yaml:"watch"`
	FetchTimeoutSeconds int      `yaml:"fetch_timeout_seconds"`
}

// WatchOrDefault returns whether file sources are watched for changes; defaults to true when unset.
func (c *CatalogConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return true
}

// FetchTimeout returns the per-fetch timeout for remote sources.
func (c *CatalogConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// FilePaths returns the sources that are local files.
func (c *CatalogConfig) FilePaths() []string {
	var paths []string
	for _, s := range c.Sources {
		if isFileSource(s) {
			paths = append(paths, s)
		}
	}
	return paths
}

// StorageConfig holds the path of the imported catalog database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds search surface settings.
type SearchConfig struct {
	// ResultsPage is the standalone results view that submitted queries navigate to.
	ResultsPage string `yaml:"results_page"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i, s := range cfg.Catalog.Sources {
		if isFileSource(s) {
			cfg.Catalog.Sources[i] = expandPath(s, configDir)
		}
	}

	return &cfg, nil
}

// Save writes the config to path. Used to persist a switch of catalog sources after an import.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func isFileSource(s string) bool {
	return s != SQLiteSource && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://")
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
