package search_test

import (
	"testing"

	model "github.com/shopvoice/backend/internal/model/search"
	search "github.com/shopvoice/backend/internal/service/search"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		filter model.Filter
		want   string
	}{
		{
			name:   "no filters falls back to your query",
			count:  15,
			filter: model.Filter{},
			want:   "Showing 15 result(s) for your query",
		},
		{
			name:   "color then price range",
			count:  3,
			filter: model.Filter{Color: strPtr("red"), MinPrice: numPtr(10), MaxPrice: numPtr(40)},
			want:   "Showing 3 result(s) for red, price between 10 and 40",
		},
		{
			name:   "color category and price keep fixed order",
			count:  1,
			filter: model.Filter{Category: strPtr("shirt"), Color: strPtr("blue"), MaxPrice: numPtr(30)},
			want:   "Showing 1 result(s) for blue, shirt, price under 30",
		},
		{
			name:   "only min price",
			count:  7,
			filter: model.Filter{MinPrice: numPtr(99.5)},
			want:   "Showing 7 result(s) for price above 99.5",
		},
		{
			name:   "keywords contribute nothing",
			count:  2,
			filter: model.Filter{Keywords: strPtr("summer")},
			want:   "Showing 2 result(s) for your query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.Summarize(tt.count, tt.filter); got != tt.want {
				t.Fatalf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
