package search

import "time"

// Turn records one processed query: what the caller asked, what the parser
// extracted, and the filter set that resulted after merging.
type Turn struct {
	Query   string        `json:"query"`
	Partial PartialFilter `json:"parsed"`
	Merged  Filter        `json:"merged"`
}

// Session captures a persistent conversational context. History is append-only
// except on reset, which clears history and lastFilters together.
type Session struct {
	ID          string    `json:"id"`
	History     []Turn    `json:"history"`
	LastFilters Filter    `json:"lastFilters"`
	CreatedAt   time.Time `json:"createdAt"`
}
