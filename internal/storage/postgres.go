package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresTimeout = 10 * time.Second

// PostgresKV stores keys in a shared table, one row per (board, key).
type PostgresKV struct {
	pool  *pgxpool.Pool
	board string
}

// NewPostgresKV connects to dsn and creates the table if needed.
func NewPostgresKV(ctx context.Context, dsn, board string) (*PostgresKV, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 4

	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if board == "" {
		board = DefaultBoard
	}
	p := &PostgresKV{pool: pool, board: board}
	if err = p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresKV) migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS lanes_kv (
			board TEXT NOT NULL,
			key TEXT NOT NULL,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (board, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		"SELECT value FROM lanes_kv WHERE board = $1 AND key = $2", p.board, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO lanes_kv (board, key, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (board, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, p.board, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM lanes_kv WHERE board = $1 AND key = $2", p.board, key)
	return err
}

func (p *PostgresKV) Close() error {
	p.pool.Close()
	return nil
}
