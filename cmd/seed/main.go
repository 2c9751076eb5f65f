// File: cmd/seed/main.go
//
// Seed bootstraps the schema, creates a few demo profiles and mints a
// batch of single-use activation codes. Intended for local setup and
// CI fixtures, safe to rerun.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"studysheet-ai-service/internal/config"
	"studysheet-ai-service/internal/domain/model"
	pg "studysheet-ai-service/internal/infra/db/postgres"
	"studysheet-ai-service/internal/infra/logging"
	"studysheet-ai-service/internal/usecase"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id                TEXT PRIMARY KEY,
		tier                   TEXT NOT NULL DEFAULT 'free',
		sheets_generated_today INTEGER NOT NULL DEFAULT 0,
		last_generation_date   DATE,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS activation_codes (
		id                  TEXT PRIMARY KEY,
		code                TEXT NOT NULL UNIQUE,
		is_redeemed         BOOLEAN NOT NULL DEFAULT FALSE,
		redeemed_by_user_id TEXT,
		redeemed_at         TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sheets (
		id         TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		subject    TEXT NOT NULL,
		level      TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		rating     INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sheets_owner_created
		ON sheets (owner_id, created_at DESC)`,
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	codeCount := flag.Int("codes", 5, "number of activation codes to mint (0 to skip)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		log.Fatalf("timezone %q: %v", cfg.Quota.Timezone, err)
	}

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	fmt.Println("schema ready")

	profileRepo := pg.NewPostgresProfileRepo(pool, loc)
	codeRepo := pg.NewActivationCodeRepo(pool)
	txm := pg.NewTxManager(pool)

	demo := []struct {
		UserID string
		Tier   model.Tier
	}{
		{"demo-free", model.TierFree},
		{"demo-premium", model.TierPremium},
		{"demo-vip", model.TierVIP},
	}
	for _, d := range demo {
		p, err := model.NewProfile(d.UserID, d.Tier)
		if err != nil {
			log.Fatalf("profile %q: %v", d.UserID, err)
		}
		if err := profileRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save profile %q: %v", d.UserID, err)
		}
		fmt.Printf("profile ready: %s (%s)\n", p.UserID, p.Tier)
	}

	if *codeCount > 0 {
		redeemUC := usecase.NewRedeemUseCase(codeRepo, profileRepo, txm, logger)
		codes, err := redeemUC.IssueCodes(ctx, *codeCount)
		if err != nil {
			log.Fatalf("issue codes: %v", err)
		}
		for _, c := range codes {
			fmt.Printf("activation code: %s\n", c.Code)
		}
	}

	fmt.Println("seeding complete")
}
