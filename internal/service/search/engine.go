package search

import (
	"strings"

	"github.com/shopvoice/backend/internal/model/catalog"
	"github.com/shopvoice/backend/internal/model/search"
)

// Apply returns the order-preserving subsequence of products matching every
// set field of the filter. Category and color compare case-insensitively;
// price bounds are inclusive. The keywords field is carried through sessions
// but intentionally not matched here; it is reserved until its semantics are
// settled. Never mutates the input slice.
func Apply(products []catalog.Product, f search.Filter) []catalog.Product {
	results := make([]catalog.Product, 0, len(products))

	for _, p := range products {
		if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
			continue
		}
		if f.Color != nil && !strings.EqualFold(p.Color, *f.Color) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		results = append(results, p)
	}

	return results
}
