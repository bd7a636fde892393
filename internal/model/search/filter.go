package search

// Filter is the accumulated set of structured constraints for one session.
// Fields use pointers so "unset" stays distinct from zero values; a minPrice
// of 0 is a legitimate constraint, not an absent one.
type Filter struct {
	Category *string  `json:"category,omitempty"`
	Color    *string  `json:"color,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Keywords *string  `json:"keywords,omitempty"`
}

// PartialFilter carries the constraints extracted from a single query. Unset
// fields mean "no new information", never "clear this field".
type PartialFilter Filter

// IsEmpty reports whether no field is set.
func (f Filter) IsEmpty() bool {
	return f.Category == nil && f.Color == nil && f.MinPrice == nil && f.MaxPrice == nil && f.Keywords == nil
}

// Clone returns a deep copy so session snapshots never share pointers with
// state mutated under the session lock.
func (f Filter) Clone() Filter {
	return Filter{
		Category: cloneString(f.Category),
		Color:    cloneString(f.Color),
		MinPrice: cloneFloat(f.MinPrice),
		MaxPrice: cloneFloat(f.MaxPrice),
		Keywords: cloneString(f.Keywords),
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
