package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres stores blobs in the migrated blobs table.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, logger: logger}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `
SELECT value
FROM blobs
WHERE key = $1
`
	var value string
	if err := p.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		p.logger.Warn("blob get failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("get blob %q: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO blobs (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := p.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("set blob %q: %w", key, err)
	}
	p.logger.Debug("blob written", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
