package search

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/busca/internal/normalize"
	"github.com/hyperjump/busca/pkg/utils"
)

const (
	// contextBefore is how many runes of text precede the marked span.
	contextBefore = 40
	// excerptMax bounds the unhighlighted excerpt and the text after the span.
	excerptMax = 120

	markOpen  = "<mark>"
	markClose = "</mark>"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-sensitive characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Highlight returns an escaped excerpt of text with the first match of rawQuery
// wrapped in <mark>. The match is found on folded forms and mapped back to text
// through the fold's index map, so the marked span is always a substring of
// text even when folding changed its length. Without a match the first
// excerptMax runes are returned unmarked.
func Highlight(text, rawQuery string) string {
	if text == "" {
		return ""
	}
	needle := normalize.Fold(strings.TrimSpace(rawQuery))
	folded := normalize.FoldIndexed(text)
	haystack := folded.String()

	idx := -1
	if needle != "" {
		idx = strings.Index(haystack, needle)
	}
	if idx < 0 {
		return EscapeHTML(utils.TruncateRunes(text, excerptMax))
	}

	k := utf8.RuneCountInString(haystack[:idx])
	start, end := originalSpan(folded, k, k+utf8.RuneCountInString(needle))

	orig := []rune(text)
	from := start - contextBefore
	if from < 0 {
		from = 0
	}
	to := end + excerptMax
	if to > len(orig) {
		to = len(orig)
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(markOpen) + len(markClose))
	sb.WriteString(EscapeHTML(string(orig[from:start])))
	sb.WriteString(markOpen)
	sb.WriteString(EscapeHTML(string(orig[start:end])))
	sb.WriteString(markClose)
	sb.WriteString(EscapeHTML(string(orig[end:to])))
	return sb.String()
}

// originalSpan maps the folded rune range [k, last) to a rune range of the
// original text. Original runes that folded to nothing right after the match
// (stray combining marks) belong to the span.
func originalSpan(f normalize.Folded, k, last int) (start, end int) {
	start = f.Origin[k]
	end = f.Len
	if last < len(f.Runes) {
		end = f.Origin[last]
	}
	if floor := f.Origin[last-1] + 1; end < floor {
		end = floor
	}
	return start, end
}
