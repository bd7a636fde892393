package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopvoice/backend/internal/model/search"
)

// Summarize renders the spoken-language summary for one turn. Parts appear in
// fixed order (color, category, price phrase) joined with ", "; when the
// filter contributes nothing the literal "your query" stands in.
func Summarize(count int, f search.Filter) string {
	parts := summaryParts(f)

	joined := "your query"
	if len(parts) > 0 {
		joined = strings.Join(parts, ", ")
	}

	return fmt.Sprintf("Showing %d result(s) for %s", count, joined)
}

func summaryParts(f search.Filter) []string {
	var parts []string

	if f.Color != nil {
		parts = append(parts, *f.Color)
	}
	if f.Category != nil {
		parts = append(parts, *f.Category)
	}

	switch {
	case f.MinPrice != nil && f.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("price between %s and %s", formatPrice(*f.MinPrice), formatPrice(*f.MaxPrice)))
	case f.MaxPrice != nil:
		parts = append(parts, "price under "+formatPrice(*f.MaxPrice))
	case f.MinPrice != nil:
		parts = append(parts, "price above "+formatPrice(*f.MinPrice))
	}

	return parts
}

// formatPrice drops insignificant trailing zeros so summaries read naturally
// ("20" rather than "20.000000").
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
