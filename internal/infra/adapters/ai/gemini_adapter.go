package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiAdapter creates a Gemini adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	models := g.client.Models.All(ctx)
	var out []string
	for m := range models {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		// Best-effort fallback to default
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", domain.ErrInvalidArgument
	}

	// Gemini carries the system role as a config-level instruction, not
	// as a history entry.
	var cfg genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: m.Content}}}
		case "assistant", "model":
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(contents) == 0 {
		return "", domain.ErrInvalidArgument
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelOrDefault(model, g.defaultModel), contents, &cfg)
	if err != nil {
		return "", mapGeminiErr(err)
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", domain.ErrEmptyCompletion
	}
	return text, nil
}

func mapGeminiErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return domain.ErrUpstreamThrottled
		case http.StatusPaymentRequired:
			return domain.ErrUpstreamExhausted
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
