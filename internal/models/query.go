package models

import "strings"

// Query holds the two forms of a user-entered search string.
type Query struct {
	// Raw is the trimmed text as typed; casing and diacritics are preserved.
	Raw string `json:"raw"`
	// Normalized is the folded comparison form of Raw.
	Normalized string `json:"normalized"`
}

// NewQuery trims raw and folds it with fold. fold is injected so this package
// stays free of the normalizer.
func NewQuery(raw string, fold func(string) string) Query {
	trimmed := strings.TrimSpace(raw)
	return Query{Raw: trimmed, Normalized: fold(trimmed)}
}

// Empty reports whether the query asks for no search.
func (q Query) Empty() bool {
	return q.Normalized == ""
}
