package catalog

import (
	"errors"
	"fmt"

	"github.com/hyperjump/busca/internal/models"
	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when a catalog document cannot be interpreted.
var ErrMalformed = errors.New("malformed catalog document")

// Candidate field names, in lookup order. The first present, non-empty value wins.
var (
	listFields        = []string{"produtos", "products"}
	nameFields        = []string{"name", "nome", "title", "titulo"}
	linkFields        = []string{"url", "link", "href"}
	priceFields       = []string{"price", "preco"}
	imageFields       = []string{"image", "imagem"}
	descriptionFields = []string{"description", "descricao"}
	featuredFields    = []string{"destaque", "featured"}
)

// productPathPrefix is prepended to a slug when an item has no explicit link.
const productPathPrefix = "/produto/"

// Parse reads a catalog document: either a top-level array of items or an
// object holding the array under "produtos" or "products". Entries that are not
// JSON objects are skipped.
func Parse(data []byte) ([]models.CatalogItem, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	doc := gjson.ParseBytes(data)
	list := doc
	if !doc.IsArray() {
		if !doc.IsObject() {
			return nil, fmt.Errorf("%w: expected array or object, got %s", ErrMalformed, doc.Type)
		}
		list = gjson.Result{}
		for _, f := range listFields {
			if r := doc.Get(f); r.IsArray() {
				list = r
				break
			}
		}
		if !list.Exists() {
			return nil, fmt.Errorf("%w: no %v array", ErrMalformed, listFields)
		}
	}

	items := make([]models.CatalogItem, 0, len(list.Array()))
	list.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			items = append(items, resolveItem(v))
		}
		return true
	})
	return items, nil
}

// resolveItem maps one raw JSON object onto the canonical item record.
func resolveItem(v gjson.Result) models.CatalogItem {
	it := models.CatalogItem{
		Name:        firstTruthy(v, nameFields),
		Image:       firstTruthy(v, imageFields),
		Description: firstTruthy(v, descriptionFields),
		Link:        resolveLink(v),
		Featured:    true,
	}
	if id := v.Get("id"); id.Exists() && id.Type != gjson.Null {
		it.ID = id.String()
	}
	for _, f := range priceFields {
		if p := v.Get(f); p.Exists() && p.Type != gjson.Null {
			it.Price = []byte(p.Raw)
			break
		}
	}
	for _, f := range featuredFields {
		if r := v.Get(f); r.Exists() {
			it.Featured = r.Type != gjson.False
			break
		}
	}
	return it
}

func resolveLink(v gjson.Result) *string {
	if link := firstTruthy(v, linkFields); link != "" {
		return &link
	}
	s := truthyString(v.Get("slug"))
	if s == "" {
		return nil
	}
	link := productPathPrefix + s
	return &link
}

func firstTruthy(v gjson.Result, fields []string) string {
	for _, f := range fields {
		if s := truthyString(v.Get(f)); s != "" {
			return s
		}
	}
	return ""
}

// truthyString returns the string form of r, or "" for absent, null, false,
// zero and empty values.
func truthyString(r gjson.Result) string {
	switch r.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
	}
	return r.String()
}
