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

func TestProfileRepo_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	truncate(t, "profiles")
	repo := NewPostgresProfileRepo(testPool, time.UTC)

	p, err := model.NewProfile("user-1", model.TierFree)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if err := repo.Save(ctx, nil, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindByUserID(ctx, nil, "user-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Tier != model.TierFree || got.SheetsGeneratedToday != 0 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.LastGenerationDate.IsZero() {
		t.Errorf("fresh profile carries a generation date: %v", got.LastGenerationDate)
	}

	if _, err := repo.FindByUserID(ctx, nil, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepo_CommitUsage(t *testing.T) {
	ctx := context.Background()
	truncate(t, "profiles")
	repo := NewPostgresProfileRepo(testPool, time.UTC)

	p, _ := model.NewProfile("user-1", model.TierFree)
	if err := repo.Save(ctx, nil, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	today := time.Now()

	t.Run("accumulates within one day", func(t *testing.T) {
		if err := repo.CommitUsage(ctx, nil, "user-1", today, 2); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if err := repo.CommitUsage(ctx, nil, "user-1", today, 3); err != nil {
			t.Fatalf("commit: %v", err)
		}
		got, _ := repo.FindByUserID(ctx, nil, "user-1")
		if got.SheetsGeneratedToday != 5 {
			t.Errorf("counter = %d, want 5", got.SheetsGeneratedToday)
		}
		if !model.SameCalendarDay(got.LastGenerationDate, today, time.UTC) {
			t.Errorf("date not stamped to today: %v", got.LastGenerationDate)
		}
	})

	t.Run("restarts on a new day", func(t *testing.T) {
		tomorrow := today.Add(24 * time.Hour)
		if err := repo.CommitUsage(ctx, nil, "user-1", tomorrow, 1); err != nil {
			t.Fatalf("commit: %v", err)
		}
		got, _ := repo.FindByUserID(ctx, nil, "user-1")
		if got.SheetsGeneratedToday != 1 {
			t.Errorf("counter = %d, want 1 after rollover", got.SheetsGeneratedToday)
		}
	})

	t.Run("concurrent commits do not lose updates", func(t *testing.T) {
		day := today.Add(48 * time.Hour)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = repo.CommitUsage(ctx, nil, "user-1", day, 1)
			}()
		}
		wg.Wait()
		got, _ := repo.FindByUserID(ctx, nil, "user-1")
		if got.SheetsGeneratedToday != 10 {
			t.Errorf("counter = %d, want 10", got.SheetsGeneratedToday)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		if err := repo.CommitUsage(ctx, nil, "ghost", today, 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProfileRepo_UpgradeTier(t *testing.T) {
	ctx := context.Background()
	truncate(t, "profiles")
	repo := NewPostgresProfileRepo(testPool, time.UTC)

	p, _ := model.NewProfile("user-1", model.TierFree)
	if err := repo.Save(ctx, nil, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.UpgradeTier(ctx, nil, "user-1", model.TierVIP); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	got, _ := repo.FindByUserID(ctx, nil, "user-1")
	if got.Tier != model.TierVIP {
		t.Errorf("tier = %s, want vip", got.Tier)
	}

	if err := repo.UpgradeTier(ctx, nil, "ghost", model.TierVIP); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
