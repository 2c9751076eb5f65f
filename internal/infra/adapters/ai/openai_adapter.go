package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AIServiceAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AIServiceAdapter against any
// OpenAI-compatible Chat Completions gateway.
type OpenAIAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAIAdapter(apiKey, model, base string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &OpenAIAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		// Backstop only; callers bound each call with a context.
		client: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{o.model}, nil
}

func (o *OpenAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if model == "" {
		model = o.model
	}

	// Build the request using the shared adapter.Message with JSON tags
	reqBody := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
	}{Model: model, Messages: messages}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", domain.ErrUpstreamThrottled
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", domain.ErrUpstreamExhausted
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: http %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", domain.ErrEmptyCompletion
}
