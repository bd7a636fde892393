package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/shopvoice/backend/internal/config"
	"github.com/shopvoice/backend/internal/model/search"
)

const systemPrompt = `You convert product search requests into structured filters.
Respond with ONLY a single JSON object of this exact shape, using null for any
field the request does not mention:
{"category": null, "color": null, "minPrice": null, "maxPrice": null, "keywords": null}
Prices are numbers. Do not add fields, prose, or markdown fences.`

// Result is one turn's extraction outcome: either a reset directive or the
// newly extracted partial filter.
type Result struct {
	Partial search.PartialFilter
	Reset   bool
}

// Service adapts the LLM into the narrow query-parsing contract the
// orchestrator needs. All decoding failures are contained here; callers only
// ever see a Result or an error they can degrade on.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the parsing chain against the configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile parsing chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// ParseQuery extracts a partial filter (or reset directive) from free-form
// query text. Explicit reset wording short-circuits without a model call.
func (s *Service) ParseQuery(ctx context.Context, query string, prev search.Filter) (Result, error) {
	if IsResetQuery(query) {
		return Result{Reset: true}, nil
	}

	prevJSON, err := json.Marshal(prev)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode previous filters: %w", err)
	}

	input := map[string]any{
		"system": systemPrompt,
		"query":  fmt.Sprintf("Previous filters: %s\nQuery: %q", prevJSON, query),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("failed to run parsing chain: %w", err)
	}

	result, err := DecodeCompletion(response.Content)
	if err != nil {
		return Result{}, err
	}

	log.Printf("[parser] extracted filters from query, reset=%t", result.Reset)
	return result, nil
}

// IsResetQuery reports whether the query carries explicit reset intent.
func IsResetQuery(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "reset") || strings.Contains(q, "clear")
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// wirePartial mirrors the collaborator's output contract. Unknown fields in
// the completion are dropped by the decoder, not errored.
type wirePartial struct {
	Reset    bool     `json:"reset"`
	Category *string  `json:"category"`
	Color    *string  `json:"color"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
	Keywords *string  `json:"keywords"`
}

// DecodeCompletion pulls the first JSON object out of a model completion and
// maps it onto the partial-filter contract. Anything that is not a single
// well-formed object is an error the caller degrades on.
func DecodeCompletion(content string) (Result, error) {
	raw := jsonObjectPattern.FindString(content)
	if raw == "" {
		return Result{}, fmt.Errorf("completion contains no JSON object: %q", content)
	}

	var wire wirePartial
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Result{}, fmt.Errorf("failed to decode completion: %w", err)
	}

	if wire.Reset {
		return Result{Reset: true}, nil
	}

	return Result{Partial: search.PartialFilter{
		Category: wire.Category,
		Color:    wire.Color,
		MinPrice: wire.MinPrice,
		MaxPrice: wire.MaxPrice,
		Keywords: wire.Keywords,
	}}, nil
}
