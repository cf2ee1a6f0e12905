package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Catalog.Sources) == 0 {
		cfg.Catalog.Sources = []string{"./recursos/produtos.json"}
	}
	if cfg.Catalog.FetchTimeoutSeconds == 0 {
		cfg.Catalog.FetchTimeoutSeconds = 10
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/busca/catalog.db"
	}
	if cfg.Search.ResultsPage == "" {
		cfg.Search.ResultsPage = "./search.html"
	}
}
