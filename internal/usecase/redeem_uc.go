package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/repository"
	"studysheet-ai-service/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ RedeemUseCase = (*redeemUC)(nil)

type RedeemUseCase interface {
	// Redeem claims the code for userID and upgrades the profile to
	// VIP. domain.ErrCodeNotFound / domain.ErrCodeAlreadyUsed when the
	// code cannot be claimed; domain.ErrTierUpgradeOrphan when the code
	// was consumed but the tier update failed.
	Redeem(ctx context.Context, userID, code string) error
	// IssueCodes mints n fresh single-use codes (admin/seed path).
	IssueCodes(ctx context.Context, n int) ([]*model.ActivationCode, error)
}

type redeemUC struct {
	codes    repository.ActivationCodeRepository
	profiles repository.ProfileRepository
	txm      repository.TransactionManager
	now      func() time.Time
	log      *zerolog.Logger
}

// NewRedeemUseCase constructs the redemption engine. txm may be nil;
// it is only used to scope batch code issuing to one transaction.
func NewRedeemUseCase(codes repository.ActivationCodeRepository, profiles repository.ProfileRepository, txm repository.TransactionManager, logger *zerolog.Logger) *redeemUC {
	return &redeemUC{codes: codes, profiles: profiles, txm: txm, now: time.Now, log: logger}
}

func (uc *redeemUC) Redeem(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if userID == "" || code == "" {
		return domain.ErrInvalidArgument
	}

	// Single conditional write: the precondition (not yet redeemed)
	// travels with the update, so concurrent attempts cannot both win.
	if err := uc.codes.Claim(ctx, nil, code, userID, uc.now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound):
			metrics.IncRedemption("invalid")
		case errors.Is(err, domain.ErrCodeAlreadyUsed):
			metrics.IncRedemption("already_used")
		}
		return err
	}

	if err := uc.profiles.UpgradeTier(ctx, nil, userID, model.TierVIP); err != nil {
		// The code stays consumed on purpose: reuse would be worse
		// than an orphaned claim. Surface loudly for the operator.
		uc.log.Error().Err(err).
			Str("user_id", userID).
			Msg("activation code claimed but tier upgrade failed")
		metrics.IncRedemption("orphaned")
		return fmt.Errorf("%w: %v", domain.ErrTierUpgradeOrphan, err)
	}

	metrics.IncRedemption("success")
	return nil
}

func (uc *redeemUC) IssueCodes(ctx context.Context, n int) ([]*model.ActivationCode, error) {
	if n <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	out := make([]*model.ActivationCode, 0, n)

	mint := func(ctx context.Context, tx repository.Tx) error {
		for i := 0; i < n; i++ {
			raw, err := generateActivationCode()
			if err != nil {
				return err
			}
			ac := &model.ActivationCode{
				ID:        uuid.NewString(),
				Code:      raw,
				CreatedAt: uc.now(),
			}
			if err := uc.codes.Save(ctx, tx, ac); err != nil {
				return err
			}
			out = append(out, ac)
		}
		return nil
	}

	if uc.txm != nil {
		if err := uc.txm.WithTx(ctx, mint); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := mint(ctx, nil); err != nil {
		return nil, err
	}
	return out, nil
}
