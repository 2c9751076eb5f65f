package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the port for the text-completion provider.
//
// Implementations translate provider failures into the domain taxonomy:
// domain.ErrUpstreamThrottled for rate limiting, ErrUpstreamExhausted
// for provider-side quota/billing exhaustion, ErrUpstreamUnavailable
// for transport errors, timeouts and malformed responses, and
// ErrEmptyCompletion when a successful response carries no content.
type AIServiceAdapter interface {
	// Chat returns only the assistant text.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}
