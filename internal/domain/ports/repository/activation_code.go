package repository

import (
	"context"
	"time"

	"studysheet-ai-service/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
type ActivationCodeRepository interface {
	// Save creates a new activation code (issuing path).
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// Claim performs the single conditional write that redeems a code:
	// it marks the row redeemed by userID only if it is not redeemed
	// yet. When zero rows match it distinguishes the two causes and
	// returns domain.ErrCodeNotFound or domain.ErrCodeAlreadyUsed.
	// Under concurrent claims of one code exactly one caller succeeds.
	Claim(ctx context.Context, tx Tx, code, userID string, at time.Time) error
	// FindByCode returns the code row regardless of redemption state.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)
}
