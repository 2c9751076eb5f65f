package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"studysheet-ai-service/internal/domain"
	"studysheet-ai-service/internal/domain/model"
	"studysheet-ai-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.SheetRepository = (*sheetRepo)(nil)

type sheetRepo struct {
	pool *pgxpool.Pool
}

func NewSheetRepo(pool *pgxpool.Pool) repository.SheetRepository {
	return &sheetRepo{pool: pool}
}

func (r *sheetRepo) Insert(ctx context.Context, tx repository.Tx, s *model.Sheet) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO sheets (id, owner_id, subject, level, title, content, rating, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err = ex.Exec(ctx, q, s.ID, s.OwnerID, s.Subject, s.Level, s.Title, s.Content, s.Rating, s.CreatedAt)
	return err
}

func (r *sheetRepo) ListByOwner(ctx context.Context, tx repository.Tx, ownerID string, offset, limit int) ([]*model.Sheet, error) {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT id, owner_id, subject, level, title, content, rating, created_at
  FROM sheets
 WHERE owner_id = $1
 ORDER BY created_at DESC, id DESC
OFFSET $2 LIMIT $3;
`
	rows, err := ex.Query(ctx, q, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Sheet
	for rows.Next() {
		var s model.Sheet
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Subject, &s.Level, &s.Title, &s.Content, &s.Rating, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *sheetRepo) UpdateRating(ctx context.Context, tx repository.Tx, id, ownerID string, rating int) error {
	ex, err := executor(r.pool, tx)
	if err != nil {
		return err
	}
	const q = `UPDATE sheets SET rating = $3 WHERE id = $1 AND owner_id = $2;`
	ct, err := ex.Exec(ctx, q, id, ownerID, rating)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
