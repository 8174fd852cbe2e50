package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytebuddy/companion/internal/profile"
)

// GeminiProvider talks to the Google generative-language REST API.
type GeminiProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGeminiProvider(baseURL, apiKey, model string) *GeminiProvider {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type geminiGenReq struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiWeb struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type geminiGroundingChunk struct {
	Web *geminiWeb `json:"web,omitempty"`
}

type geminiCandidate struct {
	Content           geminiContent `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type geminiGenResp struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *GeminiProvider) generate(ctx context.Context, req geminiGenReq) (*geminiGenResp, error) {
	if p.Client == nil {
		return nil, errors.New("gemini: http client is nil")
	}

	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.BaseURL, p.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.APIKey)

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded geminiGenResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("gemini: %s", decoded.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini: status %d", resp.StatusCode)
	}
	if len(decoded.Candidates) == 0 {
		return nil, errors.New("gemini: empty candidates")
	}
	return &decoded, nil
}

func (r *geminiGenResp) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// ChatReply sends the history with profile steering and web-search grounding
// enabled; grounding sources come back as citations.
func (p *GeminiProvider) ChatReply(ctx context.Context, history []Message, prof *profile.Profile) (Reply, error) {
	contents := make([]geminiContent, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	req := geminiGenReq{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemInstruction(prof)}}},
		Contents:          contents,
		Tools:             []geminiTool{{}},
	}

	resp, err := p.generate(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{Text: resp.text()}
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" && chunk.Web.Title != "" {
				reply.Citations = append(reply.Citations, Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
			}
		}
	}
	return reply, nil
}

func (p *GeminiProvider) SynthesizeTitle(ctx context.Context, seed string) (string, error) {
	resp, err := p.generate(ctx, geminiGenReq{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: titlePrompt(seed)}}}},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

func (p *GeminiProvider) SynthesizePlan(ctx context.Context, profileSummary string) (string, error) {
	resp, err := p.generate(ctx, geminiGenReq{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: planPrompt(profileSummary)}}}},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

func (p *GeminiProvider) AnalyzeMeal(ctx context.Context, description string) (string, error) {
	resp, err := p.generate(ctx, geminiGenReq{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: analyzeMealPrompt(description)}}}},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

// EstimateCalories asks for a bare number. A response that does not parse as
// one yields 0 without an error; only transport failures propagate.
func (p *GeminiProvider) EstimateCalories(ctx context.Context, description, quantity string) (int, error) {
	resp, err := p.generate(ctx, geminiGenReq{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: estimateCaloriesPrompt(description, quantity)}}}},
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(resp.text()))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}
