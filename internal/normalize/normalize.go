// Package normalize folds text into the comparison form used for matching:
// canonical decomposition, combining diacritical marks removed, lowercase.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Combining Diacritical Marks block.
const (
	markFirst = '\u0300'
	markLast  = '\u036f'
)

func isDiacritic(r rune) bool {
	return r >= markFirst && r <= markLast
}

var stripDiacritics = runes.Remove(runes.Predicate(isDiacritic))

// Fold returns the comparison form of text. It never fails; the folded form may
// be shorter than text because decomposed marks are dropped.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, stripDiacritics)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		return FoldIndexed(text).String()
	}
	return strings.ToLower(stripped)
}

// Folded is a folded string that remembers where each rune came from.
type Folded struct {
	// Runes is the folded text.
	Runes []rune
	// Origin[i] is the rune index in the original text where the normalization
	// segment that produced Runes[i] starts.
	Origin []int
	// Len is the rune length of the original text.
	Len int
}

// FoldIndexed folds text one normalization segment at a time, recording an index
// map from folded positions back to original positions. Marks are reordered
// within a segment, so every rune of a segment maps to the segment start.
// string(f.Runes) equals Fold(text).
func FoldIndexed(text string) Folded {
	n := utf8.RuneCountInString(text)
	f := Folded{
		Runes:  make([]rune, 0, n),
		Origin: make([]int, 0, n),
		Len:    n,
	}
	var it norm.Iter
	it.InitString(norm.NFD, text)
	pos, origin := 0, 0
	for !it.Done() {
		start := it.Pos()
		origin += utf8.RuneCountInString(text[pos:start])
		pos = start
		seg := it.Next()
		for len(seg) > 0 {
			d, size := utf8.DecodeRune(seg)
			seg = seg[size:]
			if isDiacritic(d) {
				continue
			}
			f.Runes = append(f.Runes, unicode.ToLower(d))
			f.Origin = append(f.Origin, origin)
		}
	}
	return f
}

// String returns the folded text.
func (f Folded) String() string {
	return string(f.Runes)
}
