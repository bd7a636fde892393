package search

import "github.com/shopvoice/backend/internal/model/search"

// Merge combines a session's prior filters with one turn's extracted partial.
// A present field in update replaces the prior value; an unset field keeps it.
// Pure function, no side effects.
func Merge(prev search.Filter, update search.PartialFilter) search.Filter {
	merged := prev.Clone()

	if update.Category != nil {
		v := *update.Category
		merged.Category = &v
	}
	if update.Color != nil {
		v := *update.Color
		merged.Color = &v
	}
	if update.MinPrice != nil {
		v := *update.MinPrice
		merged.MinPrice = &v
	}
	if update.MaxPrice != nil {
		v := *update.MaxPrice
		merged.MaxPrice = &v
	}
	if update.Keywords != nil {
		v := *update.Keywords
		merged.Keywords = &v
	}

	return merged
}
