// Package cli provides CLI output writers for busca.
package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/hyperjump/busca/internal/models"
	"github.com/hyperjump/busca/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// terminalMarks renders highlight markers for a terminal.
var terminalMarks = strings.NewReplacer("<mark>", "[", "</mark>", "]")

// WriteInline writes an inline search response to w in the given format.
func WriteInline(w io.Writer, response *models.InlineResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	switch response.State {
	case models.StateClosed:
		fmt.Fprintln(w, "Empty query.")
	case models.StateLoading:
		fmt.Fprintln(w, "Catalog is still loading.")
	case models.StateEmptyCatalog:
		fmt.Fprintln(w, "Catalog is empty.")
	case models.StateNoResults:
		fmt.Fprintf(w, "No results for %q.\n", response.Query)
	default:
		fmt.Fprintf(w, "\nFound %d results in %dµs\n\n", len(response.Records), response.QueryTime)
		for i, rec := range response.Records {
			fmt.Fprintf(w, "%2d. %s  (score %d)\n", i+1, MarkupToText(rec.NameMarkup), rec.Score)
			if rec.Link != nil {
				fmt.Fprintf(w, "    %s\n", *rec.Link)
			}
		}
		if response.ResultsURL != "" {
			fmt.Fprintf(w, "\nAll results: %s\n", response.ResultsURL)
		}
	}
	return nil
}

// WriteResults writes a results-view response to w in the given format.
func WriteResults(w io.Writer, response *models.ResultsResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	switch response.State {
	case models.StatePrompt:
		fmt.Fprintln(w, "Type a term to search the catalog.")
	case models.StateLoading:
		fmt.Fprintln(w, "Catalog is still loading.")
	case models.StateNoResults:
		fmt.Fprintf(w, "No products found for %q.\n", response.Term)
	default:
		fmt.Fprintf(w, "\n%d products match %q\n\n", response.Total, response.Term)
		writeCards(w, response.Cards)
	}
	return nil
}

// WriteCards writes a list of cards, such as the featured shelf.
func WriteCards(w io.Writer, cards []*models.CardRecord, format OutputFormat) error {
	if format == OutputJSON {
		if cards == nil {
			cards = []*models.CardRecord{}
		}
		return writeJSON(w, cards)
	}
	if len(cards) == 0 {
		fmt.Fprintln(w, "No products.")
		return nil
	}
	writeCards(w, cards)
	return nil
}

func writeCards(w io.Writer, cards []*models.CardRecord) {
	for _, c := range cards {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%s\n", utils.Truncate(c.Name, 80))
		if c.ID != "" {
			fmt.Fprintf(w, "ID: %s\n", c.ID)
		}
		if len(c.Price) > 0 {
			fmt.Fprintf(w, "Price: %s\n", strings.Trim(string(c.Price), `"`))
		}
		if c.Link != nil {
			fmt.Fprintf(w, "Link: %s\n", *c.Link)
		}
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// MarkupToText turns highlighted name markup into plain terminal text, with the
// highlighted span in brackets.
func MarkupToText(markup string) string {
	return html.UnescapeString(terminalMarks.Replace(markup))
}
