package benchmark

import (
	"fmt"
	"testing"

	"github.com/hyperjump/busca/internal/models"
	"github.com/hyperjump/busca/internal/normalize"
	"github.com/hyperjump/busca/internal/search"
)

var words = []string{"Caneca", "Café", "Açúcar", "Azul", "Pão", "Chá", "Mel", "Xícara", "Garrafa", "Térmica"}

func benchCatalog(n int) []models.CatalogItem {
	items := make([]models.CatalogItem, n)
	for i := range items {
		items[i] = models.CatalogItem{
			ID:   fmt.Sprint(i),
			Name: fmt.Sprintf("%s %s %s %d", words[i%len(words)], words[(i/3)%len(words)], words[(i/7)%len(words)], i),
		}
	}
	return items
}

func BenchmarkFold(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = normalize.Fold("Garrafa Térmica de Aço Inoxidável com Açúcar e Café")
	}
}

func BenchmarkRank(b *testing.B) {
	items := benchCatalog(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = search.Rank(items, "cafe")
	}
}

func BenchmarkHighlight(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = search.Highlight("Garrafa Térmica de Aço Inoxidável com Açúcar e Café", "acucar")
	}
}

func BenchmarkFilter(b *testing.B) {
	items := benchCatalog(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = search.Filter(items, "caneca")
	}
}
