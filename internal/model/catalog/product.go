package catalog

// Product is a single catalog entry. The catalog is read-only after startup,
// so products are passed around by value and never mutated.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}
