package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store exposes catalog retrieval for the filter engine and HTTP handlers.
type Store interface {
	List() []Product
}

// MemoryStore implements Store with an in-memory slice loaded once at startup.
type MemoryStore struct {
	items []Product
}

// NewMemoryStore returns a MemoryStore holding the supplied products.
func NewMemoryStore(items []Product) *MemoryStore {
	return &MemoryStore{items: append([]Product(nil), items...)}
}

// LoadFile reads a JSON product file and returns a populated store. The file
// is the service's only product source, so callers treat an error as fatal.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var items []Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, err)
	}

	return NewMemoryStore(items), nil
}

// List returns a copy of the catalog slice.
func (s *MemoryStore) List() []Product {
	return append([]Product(nil), s.items...)
}
