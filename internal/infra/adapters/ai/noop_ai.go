package ai

import (
	"context"
	"fmt"
	"time"

	"studysheet-ai-service/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev
// testing. It returns canned markdown instead of calling a provider.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	var out string
	for i := 1; i <= 3; i++ {
		out += fmt.Sprintf("# Fiche %d - Exemple\n\nContenu de démonstration généré localement, sans fournisseur. Point clé, définition, exemple, résumé.\n\n", i)
	}
	return out, nil
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}
