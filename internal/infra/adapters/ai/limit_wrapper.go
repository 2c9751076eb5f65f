package ai

import (
	"context"

	"studysheet-ai-service/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.AIServiceAdapter = (*limitedAI)(nil)

type limitedAI struct {
	inner adapter.AIServiceAdapter
	sem   chan struct{}
}

// NewLimitedAI caps concurrent provider calls with a semaphore.
func NewLimitedAI(inner adapter.AIServiceAdapter, maxConcurrent int) adapter.AIServiceAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Chat(ctx, model, messages)
}
