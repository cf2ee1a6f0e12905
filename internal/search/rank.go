package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/busca/internal/models"
	"github.com/hyperjump/busca/internal/normalize"
)

// MaxResults caps the ranked list.
const MaxResults = 10

// Score weights: any word-index step outranks any in-word offset.
const (
	wordWeight     = 100
	midWordPenalty = 20
)

// Rank returns the items whose folded name has a word containing the folded
// query, best first, at most MaxResults. Equal scores keep catalog order.
// An empty or blank query yields an empty list.
func Rank(items []models.CatalogItem, rawQuery string) []models.MatchResult {
	q := models.NewQuery(rawQuery, normalize.Fold)
	if q.Empty() {
		return []models.MatchResult{}
	}

	matches := make([]models.MatchResult, 0, MaxResults)
	for i := range items {
		m, ok := bestMatch(normalize.Fold(items[i].Name), q.Normalized)
		if !ok {
			continue
		}
		m.Item = &items[i]
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score < matches[b].Score
	})
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

// bestMatch scans the whitespace-separated words of name left to right and
// keeps the lowest score; the first of equal scores wins.
func bestMatch(name, needle string) (models.MatchResult, bool) {
	var (
		best  models.MatchResult
		found bool
	)
	for wi, word := range strings.Fields(name) {
		idx := strings.Index(word, needle)
		if idx < 0 {
			continue
		}
		pos := utf8.RuneCountInString(word[:idx])
		score := Score(wi, pos)
		if !found || score < best.Score {
			best = models.MatchResult{WordIndex: wi, Offset: pos, Score: score}
			found = true
		}
	}
	return best, found
}

// Score is the rank key of a match at rune offset pos of word wi. Prefix
// matches carry no penalty.
func Score(wi, pos int) int {
	score := wi * wordWeight
	if pos > 0 {
		score += midWordPenalty + pos
	}
	return score
}
