package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hyperjump/busca/internal/catalog"
	"github.com/hyperjump/busca/internal/models"
	"go.uber.org/zap"
)

type statusResponse struct {
	Loaded   bool       `json:"loaded"`
	Items    int        `json:"items"`
	Source   string     `json:"source,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

type featuredResponse struct {
	Loaded bool                 `json:"loaded"`
	Cards  []*models.CardRecord `json:"cards"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.logger.Debug("search request", zap.String("query", q))
	s.respondJSON(w, http.StatusOK, s.engine.Inline(q))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.logger.Debug("results request", zap.String("term", q))
	s.respondJSON(w, http.StatusOK, s.engine.Results(q))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	cards, loaded := s.engine.Featured()
	s.respondJSON(w, http.StatusOK, featuredResponse{Loaded: loaded, Cards: cards})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, newStatus(s.engine.Catalog()))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		s.respondError(w, http.StatusNotImplemented, "reload not enabled")
		return
	}
	s.logger.Debug("catalog reload request")
	c := s.reloader.Reload(r.Context())
	s.respondJSON(w, http.StatusOK, newStatus(c))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newStatus(c *catalog.Catalog) statusResponse {
	st := statusResponse{Loaded: c.Loaded(), Items: c.Len(), Source: c.Source()}
	if c.Loaded() {
		t := c.LoadedAt()
		st.LoadedAt = &t
	}
	return st
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
