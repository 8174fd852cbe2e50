package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytebuddy/companion/internal/profile"
)

// fakeGemini serves canned generateContent responses and records the last
// request body.
func fakeGemini(t *testing.T, respond func(req geminiGenReq) geminiGenResp) (*httptest.Server, *geminiGenReq) {
	t.Helper()
	var last geminiGenReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req geminiGenReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		last = req
		_ = json.NewEncoder(w).Encode(respond(req))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func textResp(text string) geminiGenResp {
	return geminiGenResp{
		Candidates: []geminiCandidate{{
			Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}},
		}},
	}
}

func TestChatReply_SteeringAndCitations(t *testing.T) {
	resp := textResp("Drink more water.")
	web := &geminiWeb{URI: "https://example.org/hydration", Title: "Hydration basics"}
	resp.Candidates[0].GroundingMetadata = &struct {
		GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
	}{
		GroundingChunks: []geminiGroundingChunk{{Web: web}, {Web: nil}},
	}

	srv, last := fakeGemini(t, func(geminiGenReq) geminiGenResp { return resp })
	p := NewGeminiProvider(srv.URL, "test-key", "test-model")

	prof := &profile.Profile{Age: "30", Weight: "70", Units: profile.UnitsMetric}
	reply, err := p.ChatReply(context.Background(), []Message{
		{Role: "user", Content: "How much water should I drink?"},
	}, prof)
	if err != nil {
		t.Fatalf("chat reply: %v", err)
	}
	if reply.Text != "Drink more water." {
		t.Fatalf("unexpected text: %q", reply.Text)
	}
	if len(reply.Citations) != 1 || reply.Citations[0].URI != web.URI {
		t.Fatalf("unexpected citations: %+v", reply.Citations)
	}

	if last.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be sent")
	}
	steering := last.SystemInstruction.Parts[0].Text
	if !strings.Contains(steering, "ByteBuddy") {
		t.Fatalf("steering missing persona: %q", steering)
	}
	if !strings.Contains(steering, "- Weight: 70 kg") {
		t.Fatalf("steering missing profile fact: %q", steering)
	}
	if len(last.Tools) != 1 {
		t.Fatalf("expected google search tool, got %+v", last.Tools)
	}
}

func TestChatReply_EmptyProfileSkipsFacts(t *testing.T) {
	srv, last := fakeGemini(t, func(geminiGenReq) geminiGenResp { return textResp("hi") })
	p := NewGeminiProvider(srv.URL, "k", "m")

	if _, err := p.ChatReply(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil); err != nil {
		t.Fatalf("chat reply: %v", err)
	}
	if strings.Contains(last.SystemInstruction.Parts[0].Text, "User Profile:") {
		t.Fatalf("empty profile must not be folded into steering")
	}
}

func TestEstimateCalories(t *testing.T) {
	answer := "450"
	srv, last := fakeGemini(t, func(geminiGenReq) geminiGenResp { return textResp(answer) })
	p := NewGeminiProvider(srv.URL, "k", "m")

	n, err := p.EstimateCalories(context.Background(), "chicken rice", "1 bowl")
	if err != nil || n != 450 {
		t.Fatalf("expected 450, got %d err=%v", n, err)
	}
	if !strings.Contains(last.Contents[0].Parts[0].Text, "1 bowl of chicken rice") {
		t.Fatalf("prompt missing quantity+description: %q", last.Contents[0].Parts[0].Text)
	}

	// non-numeric output degrades to zero, not an error
	answer = "about four hundred"
	n, err = p.EstimateCalories(context.Background(), "chicken rice", "1 bowl")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 for non-numeric, got %d err=%v", n, err)
	}

	// negative output is clamped to zero as well
	answer = "-12"
	n, err = p.EstimateCalories(context.Background(), "chicken rice", "1 bowl")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 for negative, got %d err=%v", n, err)
	}
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider(srv.URL, "bad", "m")
	if _, err := p.SynthesizePlan(context.Background(), "profile"); err == nil {
		t.Fatalf("expected error on API failure")
	}
}

type erroringProvider struct{ Provider }

func (erroringProvider) SynthesizeTitle(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

type fixedTitleProvider struct {
	Provider
	title string
}

func (p fixedTitleProvider) SynthesizeTitle(context.Context, string) (string, error) {
	return p.title, nil
}

func TestTitleOrFallback(t *testing.T) {
	ctx := context.Background()

	if got := TitleOrFallback(ctx, erroringProvider{}, "hi"); got != FallbackTitle {
		t.Fatalf("expected fallback on error, got %q", got)
	}
	if got := TitleOrFallback(ctx, fixedTitleProvider{title: `"Healthy Eating Tips"`}, "hi"); got != "Healthy Eating Tips" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
	if got := TitleOrFallback(ctx, fixedTitleProvider{title: "one two three four five six seven"}, "hi"); got != "one two three four five" {
		t.Fatalf("expected clamp to five words, got %q", got)
	}
	if got := TitleOrFallback(ctx, fixedTitleProvider{title: "  "}, "hi"); got != FallbackTitle {
		t.Fatalf("expected fallback on blank title, got %q", got)
	}
}
