package ai

import (
	"testing"
)

func TestDecodeCompletion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, r Result)
	}{
		{
			name:    "plain object",
			content: `{"category": "shirt", "color": null, "minPrice": null, "maxPrice": 30, "keywords": null}`,
			check: func(t *testing.T, r Result) {
				if r.Reset {
					t.Fatal("unexpected reset")
				}
				if r.Partial.Category == nil || *r.Partial.Category != "shirt" {
					t.Fatalf("category not extracted: %+v", r.Partial)
				}
				if r.Partial.MaxPrice == nil || *r.Partial.MaxPrice != 30 {
					t.Fatalf("maxPrice not extracted: %+v", r.Partial)
				}
				if r.Partial.Color != nil {
					t.Fatalf("null field must stay unset: %+v", r.Partial)
				}
			},
		},
		{
			name:    "object wrapped in prose and fences",
			content: "Sure, here you go:\n```json\n{\"color\": \"red\"}\n```",
			check: func(t *testing.T, r Result) {
				if r.Partial.Color == nil || *r.Partial.Color != "red" {
					t.Fatalf("failed to extract object from fenced completion: %+v", r.Partial)
				}
			},
		},
		{
			name:    "reset directive",
			content: `{"reset": true}`,
			check: func(t *testing.T, r Result) {
				if !r.Reset {
					t.Fatal("expected reset directive")
				}
			},
		},
		{
			name:    "unknown fields dropped",
			content: `{"category": "shoes", "brand": "acme", "size": 42}`,
			check: func(t *testing.T, r Result) {
				if r.Partial.Category == nil || *r.Partial.Category != "shoes" {
					t.Fatalf("recognized field lost: %+v", r.Partial)
				}
			},
		},
		{
			name:    "zero price is a present value",
			content: `{"minPrice": 0}`,
			check: func(t *testing.T, r Result) {
				if r.Partial.MinPrice == nil || *r.Partial.MinPrice != 0 {
					t.Fatalf("explicit zero must be preserved: %+v", r.Partial)
				}
			},
		},
		{
			name:    "no JSON object at all",
			content: "I could not parse that request.",
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			content: `{"category": "shirt",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeCompletion(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCompletion err: %v", err)
			}
			tt.check(t, result)
		})
	}
}

func TestIsResetQuery(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"reset my search", true},
		{"please CLEAR everything", true},
		{"red shirts under 30", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsResetQuery(tc.query); got != tc.want {
			t.Errorf("IsResetQuery(%q) = %t, want %t", tc.query, got, tc.want)
		}
	}
}
