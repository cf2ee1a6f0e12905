// Package search ranks catalog items against a typed query, highlights the
// match in the original name, and runs the plain substring filter used by the
// standalone results view.
package search

import (
	"strings"
	"time"

	"github.com/hyperjump/busca/internal/catalog"
	"github.com/hyperjump/busca/internal/config"
	"github.com/hyperjump/busca/internal/models"
	"go.uber.org/zap"
)

// Engine evaluates queries against the current catalog snapshot. It keeps no
// per-query state; concurrent calls are independent.
type Engine struct {
	store  *catalog.Store
	config *config.SearchConfig
	logger *zap.Logger
}

// NewEngine creates a search engine reading from store.
func NewEngine(store *catalog.Store, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = &config.SearchConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, config: cfg, logger: logger}
}

// Catalog returns the snapshot queries currently run against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.store.Current()
}

// Inline runs the live search. The state is decided before ranking: an empty
// query closes the results, a pending catalog reports loading, an empty catalog
// reports so, and only then are matches ranked and highlighted.
func (e *Engine) Inline(rawQuery string) *models.InlineResponse {
	startTime := time.Now()
	raw := strings.TrimSpace(rawQuery)
	resp := &models.InlineResponse{
		State:   models.StateClosed,
		Query:   raw,
		Records: []*models.InlineRecord{},
	}
	if raw == "" {
		return resp
	}
	resp.ResultsURL = ResultsURL(e.config.ResultsPage, raw)

	cat := e.store.Current()
	switch {
	case !cat.Loaded():
		resp.State = models.StateLoading
		return resp
	case cat.Len() == 0:
		resp.State = models.StateEmptyCatalog
		return resp
	}

	matches := Rank(cat.Items(), raw)
	for _, m := range matches {
		resp.Records = append(resp.Records, &models.InlineRecord{
			ID:         m.Item.ID,
			Link:       m.Item.Link,
			NameMarkup: Highlight(m.Item.Name, raw),
			Score:      m.Score,
		})
	}
	resp.State = models.StateNoResults
	if len(resp.Records) > 0 {
		resp.State = models.StateResults
	}
	resp.QueryTime = time.Since(startTime).Microseconds()
	e.logger.Debug("inline search",
		zap.String("query", raw),
		zap.Int("matches", len(resp.Records)),
		zap.Int64("query_time_us", resp.QueryTime),
	)
	return resp
}

// Results runs the standalone results view filter for term.
func (e *Engine) Results(rawTerm string) *models.ResultsResponse {
	startTime := time.Now()
	term := strings.ToLower(strings.TrimSpace(rawTerm))
	resp := &models.ResultsResponse{
		State: models.StatePrompt,
		Term:  term,
		Cards: []*models.CardRecord{},
	}
	if term == "" {
		return resp
	}
	cat := e.store.Current()
	if !cat.Loaded() {
		resp.State = models.StateLoading
		return resp
	}
	for _, it := range Filter(cat.Items(), term) {
		resp.Cards = append(resp.Cards, models.NewCardRecord(it))
	}
	resp.Total = len(resp.Cards)
	resp.State = models.StateNoResults
	if resp.Total > 0 {
		resp.State = models.StateResults
	}
	resp.QueryTime = time.Since(startTime).Microseconds()
	e.logger.Debug("results filter",
		zap.String("term", term),
		zap.Int("total", resp.Total),
	)
	return resp
}

// Featured returns the featured shelf. loaded is false while the catalog is pending.
func (e *Engine) Featured() (cards []*models.CardRecord, loaded bool) {
	cat := e.store.Current()
	cards = []*models.CardRecord{}
	if !cat.Loaded() {
		return cards, false
	}
	for _, it := range Featured(cat.Items()) {
		cards = append(cards, models.NewCardRecord(it))
	}
	return cards, true
}
