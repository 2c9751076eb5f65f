//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
)

func seedTestCode(t *testing.T, raw string) {
	t.Helper()
	repo := NewActivationCodeRepo(testPool)
	err := repo.Save(context.Background(), nil, &model.ActivationCode{
		Code:      raw,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed code: %v", err)
	}
}

func TestActivationCodeRepo_Claim(t *testing.T) {
	ctx := context.Background()
	repo := NewActivationCodeRepo(testPool)

	t.Run("claims a fresh code once", func(t *testing.T) {
		truncate(t, "activation_codes")
		seedTestCode(t, "AAAA-BBBB-CCCC")

		if err := repo.Claim(ctx, nil, "AAAA-BBBB-CCCC", "user-1", time.Now()); err != nil {
			t.Fatalf("claim: %v", err)
		}
		got, err := repo.FindByCode(ctx, nil, "AAAA-BBBB-CCCC")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if !got.IsRedeemed || got.RedeemedByUserID == nil || *got.RedeemedByUserID != "user-1" {
			t.Errorf("claim not recorded: %+v", got)
		}
		if got.RedeemedAt == nil {
			t.Error("redeemed_at not stamped")
		}

		err = repo.Claim(ctx, nil, "AAAA-BBBB-CCCC", "user-2", time.Now())
		if !errors.Is(err, domain.ErrCodeAlreadyUsed) {
			t.Fatalf("expected ErrCodeAlreadyUsed, got %v", err)
		}
	})

	t.Run("distinguishes missing from spent", func(t *testing.T) {
		truncate(t, "activation_codes")
		err := repo.Claim(ctx, nil, "NOPE-NOPE-NOPE", "user-1", time.Now())
		if !errors.Is(err, domain.ErrCodeNotFound) {
			t.Fatalf("expected ErrCodeNotFound, got %v", err)
		}
	})

	t.Run("exactly one concurrent claimant wins", func(t *testing.T) {
		truncate(t, "activation_codes")
		seedTestCode(t, "RACE-RACE-RACE")

		const racers = 12
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				uid := string(rune('a' + n))
				if err := repo.Claim(ctx, nil, "RACE-RACE-RACE", uid, time.Now()); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		if wins != 1 {
			t.Fatalf("expected 1 winner, got %d", wins)
		}
	})
}
