package genai

import (
	"context"
	"strings"

	"github.com/bytebuddy/companion/internal/profile"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Reply is a chat answer plus any web sources the model grounded it on.
type Reply struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}

// Provider is the boundary to the external text-generation capability.
// Implementations perform a remote call and may fail; callers own the
// fallback for each operation.
type Provider interface {
	ChatReply(ctx context.Context, history []Message, prof *profile.Profile) (Reply, error)
	SynthesizeTitle(ctx context.Context, seed string) (string, error)
	SynthesizePlan(ctx context.Context, profileSummary string) (string, error)
	AnalyzeMeal(ctx context.Context, description string) (string, error)
	EstimateCalories(ctx context.Context, description, quantity string) (int, error)
}

const FallbackTitle = "New Chat"

// TitleOrFallback sanitizes a synthesized conversation title: quotes stripped,
// clamped to five words, FallbackTitle on failure or empty output. Never errors.
func TitleOrFallback(ctx context.Context, p Provider, seed string) string {
	raw, err := p.SynthesizeTitle(ctx, seed)
	if err != nil {
		return FallbackTitle
	}
	title := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if title == "" {
		return FallbackTitle
	}
	words := strings.Fields(title)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}
