package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"aeropart/config"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS submissions (
	id           UUID PRIMARY KEY,
	operation    TEXT        NOT NULL,
	part_id      BIGINT      NOT NULL DEFAULT 0,
	account      TEXT        NOT NULL,
	tx_id        TEXT        NOT NULL,
	block_height BIGINT      NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO submissions (id, operation, part_id, account, tx_id, block_height, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Postgres is the pgx-backed Journal implementation.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres connects the journal pool and ensures the submissions table.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse journal DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConnections)
	poolCfg.MinConns = int32(cfg.MinConnections)

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect journal database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure submissions table: %w", err)
	}

	logger.Info().Int("max_conns", cfg.MaxConnections).Msg("submission journal ready")
	return &Postgres{pool: pool, logger: logger}, nil
}

// Record persists one confirmed submission.
func (p *Postgres) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now().UTC()
	}

	_, err := p.pool.Exec(ctx, insertSQL,
		entry.ID, entry.Operation, entry.PartID, entry.Account,
		entry.TxID, entry.BlockHeight, entry.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to record submission %s: %w", entry.ID, err)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

var _ Journal = (*Postgres)(nil)
