package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/adapter"
	"studysheet-ai-service/internal/domain/ports/repository"
	"studysheet-ai-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ GenerateUseCase = (*generateUC)(nil)

// PromptCatalog supplies provider prompts and the unit heading marker
// in the configured user-facing language.
type PromptCatalog interface {
	SystemPrompt() string
	UserPrompt(kind model.GenType, count int, subject, level, topic string) string
	// HeadingMarker is the word opening each unit heading, e.g. "Fiche".
	HeadingMarker() string
}

type GenerateUseCase interface {
	// Generate runs the full request: reserve quota, call the
	// provider, decompose, persist, commit the real charge, respond.
	Generate(ctx context.Context, userID, subject, level, topic string, kind model.GenType) ([]*model.Sheet, error)
	ListSheets(ctx context.Context, userID string, offset, limit int) ([]*model.Sheet, error)
	RateSheet(ctx context.Context, userID, sheetID string, rating int) error
}

type generateUC struct {
	quota   QuotaUseCase
	sheets  repository.SheetRepository
	ai      adapter.AIServiceAdapter
	prompts PromptCatalog
	model   string
	timeout time.Duration
	log     *zerolog.Logger
}

func NewGenerateUseCase(quota QuotaUseCase, sheets repository.SheetRepository, ai adapter.AIServiceAdapter, prompts PromptCatalog, modelName string, providerTimeout time.Duration, logger *zerolog.Logger) *generateUC {
	if providerTimeout <= 0 {
		providerTimeout = 60 * time.Second
	}
	return &generateUC{
		quota:   quota,
		sheets:  sheets,
		ai:      ai,
		prompts: prompts,
		model:   modelName,
		timeout: providerTimeout,
		log:     logger,
	}
}

func (uc *generateUC) Generate(ctx context.Context, userID, subject, level, topic string, kind model.GenType) ([]*model.Sheet, error) {
	subject = strings.TrimSpace(subject)
	level = strings.TrimSpace(level)
	topic = strings.TrimSpace(topic)
	if userID == "" || subject == "" || level == "" || topic == "" {
		return nil, domain.ErrInvalidArgument
	}

	res, err := uc.quota.Reserve(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := kind.UnitCount()
	msgs := []adapter.Message{
		{Role: "system", Content: uc.prompts.SystemPrompt()},
		{Role: "user", Content: uc.prompts.UserPrompt(kind, count, subject, level, topic)},
	}

	// Once admitted, the request runs to completion even if the caller
	// disconnects: the provider call is never cancelled mid-flight, and
	// produced units must still be persisted and charged. Only the
	// configured timeout bounds the call.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
	start := time.Now()
	raw, err := uc.ai.Chat(cctx, uc.model, msgs)
	cancel()
	metrics.ObserveProviderCall(uc.model, time.Since(start), err == nil)

	bgCtx, bgCancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer bgCancel()

	if err != nil {
		_ = uc.quota.Release(bgCtx, res)
		return nil, normalizeProviderErr(err)
	}
	if strings.TrimSpace(raw) == "" {
		_ = uc.quota.Release(bgCtx, res)
		return nil, domain.ErrEmptyCompletion
	}

	drafts := splitSheets(raw, topic, uc.prompts.HeadingMarker(), count)

	// Persist each unit independently; one bad insert only shrinks the
	// result set.
	saved := make([]*model.Sheet, 0, len(drafts))
	for _, d := range drafts {
		s := model.NewSheet(userID, subject, level, d.Title, d.Content)
		if err := uc.sheets.Insert(bgCtx, nil, s); err != nil {
			uc.log.Error().Err(err).
				Str("user_id", userID).
				Str("title", d.Title).
				Msg("sheet insert failed")
			metrics.IncPersistFailure()
			continue
		}
		saved = append(saved, s)
	}

	// The actual charge: persisted units only, stamped to today.
	if err := uc.quota.Commit(bgCtx, res, len(saved)); err != nil {
		uc.log.Error().Err(err).
			Str("user_id", userID).
			Int("units", len(saved)).
			Msg("quota commit failed")
	}

	if len(saved) == 0 {
		return nil, domain.ErrNothingPersisted
	}
	metrics.AddSheetsGenerated(string(kind), len(saved))
	return saved, nil
}

func (uc *generateUC) ListSheets(ctx context.Context, userID string, offset, limit int) ([]*model.Sheet, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.sheets.ListByOwner(ctx, nil, userID, offset, limit)
}

func (uc *generateUC) RateSheet(ctx context.Context, userID, sheetID string, rating int) error {
	if userID == "" || sheetID == "" || !model.ValidRating(rating) {
		return domain.ErrInvalidArgument
	}
	return uc.sheets.UpdateRating(ctx, nil, sheetID, userID, rating)
}

// normalizeProviderErr folds unclassified provider failures (transport
// errors, timeouts, malformed bodies) into ErrUpstreamUnavailable while
// letting the typed taxonomy through untouched.
func normalizeProviderErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamThrottled),
		errors.Is(err, domain.ErrUpstreamExhausted),
		errors.Is(err, domain.ErrUpstreamUnavailable),
		errors.Is(err, domain.ErrEmptyCompletion):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
}
