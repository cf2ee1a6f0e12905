// Package server provides the HTTP API for busca.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/busca/internal/catalog"
	"github.com/hyperjump/busca/internal/config"
	"github.com/hyperjump/busca/internal/search"
	"go.uber.org/zap"
)

// Reloader refreshes the catalog the engine reads from.
type Reloader interface {
	Reload(ctx context.Context) *catalog.Catalog
}

// Server is the HTTP server for the busca API.
type Server struct {
	engine   *search.Engine
	reloader Reloader
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies. reloader may be nil,
// in which case the reload endpoint answers 501.
func NewServer(
	engine *search.Engine,
	reloader Reloader,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:   engine,
		reloader: reloader,
		config:   cfg,
		logger:   logger,
	}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/results", s.handleResults)
	r.Get("/api/v1/featured", s.handleFeatured)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/catalog/reload", s.handleReload)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
