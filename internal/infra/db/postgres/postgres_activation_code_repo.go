package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	const q = `
INSERT INTO activation_codes (id, code, is_redeemed, redeemed_by_user_id, redeemed_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err = ex.Exec(ctx, q,
		code.ID, code.Code, code.IsRedeemed, code.RedeemedByUserID, code.RedeemedAt, code.CreatedAt,
	)
	return err
}

// Claim is the compare-and-swap at the heart of redemption: the
// precondition (is_redeemed = FALSE) rides inside the UPDATE, so of N
// concurrent claimants exactly one sees a matched row.
func (r *activationCodeRepo) Claim(ctx context.Context, tx repository.Tx, code, userID string, at time.Time) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
UPDATE activation_codes
   SET is_redeemed = TRUE, redeemed_by_user_id = $2, redeemed_at = $3
 WHERE code = $1 AND is_redeemed = FALSE;
`
	ct, err := ex.Exec(ctx, q, code, userID, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Zero rows matched: either the code never existed or someone beat
	// us to it. One read tells the two apart.
	var redeemed bool
	row := ex.QueryRow(ctx, `SELECT is_redeemed FROM activation_codes WHERE code = $1;`, code)
	if err := row.Scan(&redeemed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCodeNotFound
		}
		return err
	}
	return domain.ErrCodeAlreadyUsed
}

func (r *activationCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id, code, is_redeemed, redeemed_by_user_id, redeemed_at, created_at
  FROM activation_codes
 WHERE code = $1;
`
	var ac model.ActivationCode
	row := ex.QueryRow(ctx, q, code)
	if err := row.Scan(&ac.ID, &ac.Code, &ac.IsRedeemed, &ac.RedeemedByUserID, &ac.RedeemedAt, &ac.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ac, nil
}
