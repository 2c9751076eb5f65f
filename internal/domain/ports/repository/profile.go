package repository

import (
	"context"
	"time"

	"studysheet-ai-service/internal/domain/model"
)

// ProfileRepository is the port for the per-user entitlement record.
type ProfileRepository interface {
	// Save creates or updates a profile (seed/admin path).
	Save(ctx context.Context, tx Tx, p *model.Profile) error
	// FindByUserID returns domain.ErrNotFound when no profile exists.
	FindByUserID(ctx context.Context, tx Tx, userID string) (*model.Profile, error)
	// CommitUsage charges units against the daily counter in a single
	// atomic statement: when the stored date equals day the counter is
	// incremented, otherwise it restarts at units; the date is stamped
	// to day either way. Never a read-modify-write at this layer.
	CommitUsage(ctx context.Context, tx Tx, userID string, day time.Time, units int) error
	// UpgradeTier overwrites the tier unconditionally.
	// Returns domain.ErrNotFound when no profile row matched.
	UpgradeTier(ctx context.Context, tx Tx, userID string, tier model.Tier) error
}
