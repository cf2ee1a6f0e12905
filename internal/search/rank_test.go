package search

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/hyperjump/busca/internal/models"
)

func items(names ...string) []models.CatalogItem {
	out := make([]models.CatalogItem, len(names))
	for i, n := range names {
		out[i] = models.CatalogItem{ID: fmt.Sprint(i), Name: n}
	}
	return out
}

func names(matches []models.MatchResult) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Item.Name
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		wi, pos, want int
	}{
		{0, 0, 0},
		{0, 1, 21},
		{0, 5, 25},
		{1, 0, 100},
		{1, 3, 123},
		{2, 0, 200},
	}
	for _, tt := range tests {
		if got := Score(tt.wi, tt.pos); got != tt.want {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.wi, tt.pos, got, tt.want)
		}
	}
}

func TestRank_wordPositionPriority(t *testing.T) {
	got := names(Rank(items("Red Shoe", "Shoe Red"), "shoe"))
	want := []string{"Shoe Red", "Red Shoe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_prefixPriority(t *testing.T) {
	got := Rank(items("mushoes", "shoes"), "sho")
	if len(got) != 2 {
		t.Fatalf("got %d matches", len(got))
	}
	if got[0].Item.Name != "shoes" || got[0].Score != 0 || got[0].Offset != 0 {
		t.Errorf("prefix match should rank first: %+v", got[0])
	}
	if got[1].Item.Name != "mushoes" || got[1].Offset != 2 || got[1].Score != 22 {
		t.Errorf("mid-word match: %+v", got[1])
	}
}

func TestRank_wordIndexOutranksOffset(t *testing.T) {
	// a late offset in word 0 still beats a prefix in word 1
	got := names(Rank(items("Big Mug", "abcdefghijmug"), "mug"))
	want := []string{"abcdefghijmug", "Big Mug"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_bestMatchPerItem(t *testing.T) {
	got := Rank(items("xmug mug"), "mug")
	if len(got) != 1 {
		t.Fatalf("item should appear once, got %d", len(got))
	}
	// word 0 at offset 1 (21) beats word 1 prefix (100)
	if got[0].WordIndex != 0 || got[0].Offset != 1 || got[0].Score != 21 {
		t.Errorf("unexpected best match: %+v", got[0])
	}
}

func TestRank_diacriticAndCaseInsensitive(t *testing.T) {
	got := names(Rank(items("Café Especial", "Chá Verde", "AÇAÍ"), "CAFE"))
	if !reflect.DeepEqual(got, []string{"Café Especial"}) {
		t.Errorf("got %v", got)
	}
	got = names(Rank(items("Café Especial", "Chá Verde", "AÇAÍ"), "açai"))
	if !reflect.DeepEqual(got, []string{"AÇAÍ"}) {
		t.Errorf("got %v", got)
	}
}

func TestRank_offsetsCountRunes(t *testing.T) {
	got := Rank(items("pãozinho"), "zinho")
	if len(got) != 1 || got[0].Offset != 3 || got[0].Score != 23 {
		t.Errorf("unexpected match: %+v", got)
	}
}

func TestRank_stableForEqualScores(t *testing.T) {
	got := names(Rank(items("Mug C", "Mug A", "Mug B"), "mug"))
	want := []string{"Mug C", "Mug A", "Mug B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRank_deterministic(t *testing.T) {
	catalog := items("Red Mug", "Mug", "Blue mugs", "Mugshot", "Smug Cat", "Tea")
	first := names(Rank(catalog, "mug"))
	for i := 0; i < 5; i++ {
		if got := names(Rank(catalog, "mug")); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
}

func TestRank_cap(t *testing.T) {
	var ns []string
	for i := 0; i < 25; i++ {
		ns = append(ns, fmt.Sprintf("Mug %d", i))
	}
	got := Rank(items(ns...), "mug")
	if len(got) != MaxResults {
		t.Fatalf("got %d results, want %d", len(got), MaxResults)
	}
	if got[0].Item.Name != "Mug 0" || got[9].Item.Name != "Mug 9" {
		t.Errorf("cap should keep the first items in catalog order: %v", names(got))
	}
	if got := Rank(items(ns[:3]...), "mug"); len(got) != 3 {
		t.Errorf("fewer than cap: got %d", len(got))
	}
}

func TestRank_exclusion(t *testing.T) {
	catalog := []models.CatalogItem{
		{Name: ""},
		{Name: "   "},
		{Name: "\u0301"},
		{Name: "Mug"},
	}
	got := Rank(catalog, "mug")
	if len(got) != 1 || got[0].Item != &catalog[3] {
		t.Errorf("only the named item should match: %+v", got)
	}
}

func TestRank_emptyQuery(t *testing.T) {
	catalog := items("Mug", "Cup")
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Rank(catalog, q)
		if got == nil || len(got) != 0 {
			t.Errorf("Rank(%q) = %v, want empty list", q, got)
		}
	}
}

func TestRank_noMatches(t *testing.T) {
	got := Rank(items("Mug", "Cup"), "teapot")
	if len(got) != 0 {
		t.Errorf("got %v", names(got))
	}
	// a query longer than every word cannot match
	if got := Rank(items("ab cd"), "abcd"); len(got) != 0 {
		t.Errorf("got %v", names(got))
	}
	// the query is matched inside single words only
	if got := Rank(items("Red Mug"), "red mug"); len(got) != 0 {
		t.Errorf("got %v", names(got))
	}
}

func TestRank_trimsQuery(t *testing.T) {
	got := Rank(items("Red Mug"), "  mug  ")
	if len(got) != 1 || got[0].WordIndex != 1 || got[0].Score != 100 {
		t.Errorf("unexpected: %+v", got)
	}
}

func TestRank_emptyCatalog(t *testing.T) {
	if got := Rank(nil, "mug"); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
