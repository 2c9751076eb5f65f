package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ProfileRepository = (*PostgresProfileRepo)(nil)

type PostgresProfileRepo struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPostgresProfileRepo constructs the repo. loc is the reference zone
// used to stamp last_generation_date; it must match the quota engine's.
func NewPostgresProfileRepo(pool *pgxpool.Pool, loc *time.Location) *PostgresProfileRepo {
	if loc == nil {
		loc = time.UTC
	}
	return &PostgresProfileRepo{pool: pool, loc: loc}
}

func (r *PostgresProfileRepo) dateOf(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02")
}

func (r *PostgresProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.Profile) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO profiles (user_id, tier, sheets_generated_today, last_generation_date, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (user_id) DO UPDATE SET
  tier=$2, sheets_generated_today=$3, last_generation_date=$4, updated_at=$6;
`
	var lastDate interface{}
	if !p.LastGenerationDate.IsZero() {
		lastDate = r.dateOf(p.LastGenerationDate)
	}
	_, err = ex.Exec(ctx, q, p.UserID, string(p.Tier), p.SheetsGeneratedToday, lastDate, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.Profile, error) {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT user_id, tier, sheets_generated_today, last_generation_date, created_at, updated_at
  FROM profiles WHERE user_id=$1;
`
	var (
		p        model.Profile
		tier     string
		lastDate *time.Time
	)
	row := ex.QueryRow(ctx, q, userID)
	if err := row.Scan(&p.UserID, &tier, &p.SheetsGeneratedToday, &lastDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Tier = model.Tier(tier)
	if lastDate != nil {
		// The DATE column is a calendar day stamped in r.loc; rebind it
		// there (at noon, clear of DST edges) so day comparisons hold
		// for zones on either side of UTC.
		y, m, d := lastDate.UTC().Date()
		p.LastGenerationDate = time.Date(y, m, d, 12, 0, 0, 0, r.loc)
	}
	return &p, nil
}

// CommitUsage is the single-statement charge: the rollover decision
// (same day: add; new day: restart) lives in SQL so concurrent commits
// cannot lose updates.
func (r *PostgresProfileRepo) CommitUsage(ctx context.Context, tx repository.Tx, userID string, day time.Time, units int) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
UPDATE profiles
   SET sheets_generated_today = CASE
         WHEN last_generation_date = $2::date THEN sheets_generated_today + $3
         ELSE $3
       END,
       last_generation_date = $2::date,
       updated_at = now()
 WHERE user_id = $1;
`
	ct, err := ex.Exec(ctx, q, userID, r.dateOf(day), units)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepo) UpgradeTier(ctx context.Context, tx repository.Tx, userID string, tier model.Tier) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `UPDATE profiles SET tier=$2, updated_at=now() WHERE user_id=$1;`
	ct, err := ex.Exec(ctx, q, userID, string(tier))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
