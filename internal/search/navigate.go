package search

import (
	"net/url"
	"strings"
)

// ResultsURL builds the address of the standalone results view for term:
// resultsPage?q=<term>, with the term percent-encoded the way browsers encode
// URI components (spaces become %20).
func ResultsURL(resultsPage, term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return resultsPage
	}
	sep := "?"
	if strings.Contains(resultsPage, "?") {
		sep = "&"
	}
	return resultsPage + sep + "q=" + strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}

// TermFromURL reads the decoded q parameter back out of a results view URL.
// Unparseable URLs yield "".
func TermFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("q")
}
