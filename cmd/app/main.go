// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studysheet-ai-service/internal/config"
	"studysheet-ai-service/internal/domain/ports/adapter"
	aiAdapters "studysheet-ai-service/internal/infra/adapters/ai"
	pg "studysheet-ai-service/internal/infra/db/postgres"
	"studysheet-ai-service/internal/infra/i18n"
	"studysheet-ai-service/internal/infra/logging"
	"studysheet-ai-service/internal/infra/metrics"
	red "studysheet-ai-service/internal/infra/redis"
	"studysheet-ai-service/internal/infra/web"
	"studysheet-ai-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed auth, noop provider fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Quota.Timezone, err)
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	pending := red.NewPendingQuota(redisClient, loc)

	// ---- Repositories ----
	profileRepo := pg.NewPostgresProfileRepo(pool, loc)
	codeRepo := pg.NewActivationCodeRepo(pool)
	sheetRepo := pg.NewSheetRepo(pool)
	txm := pg.NewTxManager(pool)

	// ---- Localization / prompts ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Lang)
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}
	prompts := i18n.NewPrompts(tr)

	// ---- AI Adapter (Gemini -> OpenAI-compatible -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.OpenAIBaseURL)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI-compatible")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("AI adapter: noop (dev)")
	default:
		log.Fatalf("no AI provider configured: set ai.gemini_key or ai.openai_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	quotaUC := usecase.NewQuotaUseCase(profileRepo, pending, cfg.Quota.FreeDailyLimit, loc, logger)
	redeemUC := usecase.NewRedeemUseCase(codeRepo, profileRepo, txm, logger)
	genUC := usecase.NewGenerateUseCase(quotaUC, sheetRepo, ai, prompts, cfg.AI.DefaultModel, cfg.AI.RequestTimeout, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.HMACSecret)
	srv := web.NewServer(genUC, redeemUC, auth, tr, logger, cfg.Server.AllowedOrigin, cfg.Server.RequestTimeout)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer shCancel()
	if err := server.Shutdown(shCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
