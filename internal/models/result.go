package models

import "encoding/json"

// MatchResult is the best match of a query inside one item's name.
// Results are recomputed per query and never stored.
type MatchResult struct {
	Item *CatalogItem
	// WordIndex is the 0-based token position within the folded name.
	WordIndex int
	// Offset is the rune offset of the match within that token.
	Offset int
	// Score is the rank key; lower is better.
	Score int
}

// SearchState is one of the mutually exclusive render states of a search surface.
type SearchState string

const (
	// StateClosed means the query is empty and nothing was computed.
	StateClosed SearchState = "closed"
	// StatePrompt means the results view has no term to search for.
	StatePrompt SearchState = "prompt"
	// StateLoading means the catalog has not finished loading.
	StateLoading SearchState = "loading"
	// StateEmptyCatalog means the catalog loaded with no items.
	StateEmptyCatalog SearchState = "empty_catalog"
	// StateNoResults means the search ran and nothing matched.
	StateNoResults SearchState = "no_results"
	// StateResults means Records holds at least one entry.
	StateResults SearchState = "results"
)

// InlineRecord is one ranked, highlighted entry of the inline search.
type InlineRecord struct {
	ID         string  `json:"id"`
	Link       *string `json:"link"`
	NameMarkup string  `json:"name_markup"`
	Score      int     `json:"score"`
}

// CardRecord is one entry of the standalone results view or the featured shelf.
type CardRecord struct {
	ID    string          `json:"id"`
	Link  *string         `json:"link"`
	Name  string          `json:"name"`
	Price json.RawMessage `json:"price,omitempty"`
	Image string          `json:"image"`
}

// InlineResponse is the outcome of one inline search evaluation.
type InlineResponse struct {
	State      SearchState     `json:"state"`
	Query      string          `json:"query"`
	Records    []*InlineRecord `json:"records"`
	ResultsURL string          `json:"results_url,omitempty"`
	QueryTime  int64           `json:"query_time_us"`
}

// ResultsResponse is the outcome of the simple substring filter.
type ResultsResponse struct {
	State     SearchState   `json:"state"`
	Term      string        `json:"term"`
	Cards     []*CardRecord `json:"cards"`
	Total     int           `json:"total"`
	QueryTime int64         `json:"query_time_us"`
}

// NewCardRecord builds the card view of it.
func NewCardRecord(it *CatalogItem) *CardRecord {
	return &CardRecord{
		ID:    it.ID,
		Link:  it.Link,
		Name:  it.Name,
		Price: it.Price,
		Image: it.Image,
	}
}
