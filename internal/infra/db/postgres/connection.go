package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool returns a live connection pool for the given DSN.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	return pgxpool.ConnectConfig(ctx, cfg)
}
