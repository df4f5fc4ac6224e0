package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// EnsureSchema creates the tables on startup so a fresh database works without
// a separate migration step.
func (d *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS holdingpen_objects (
			object_id   BIGSERIAL PRIMARY KEY,
			workflow_id TEXT,
			status      TEXT NOT NULL,
			data        JSONB NOT NULL DEFAULT '{}'::jsonb,
			extra_data  JSONB NOT NULL DEFAULT '{}'::jsonb,
			bucket_id   TEXT,
			user_id     BIGINT,
			logs        JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS holdingpen_objects_status_idx ON holdingpen_objects (status)`,
		`CREATE TABLE IF NOT EXISTS journals (
			journal_id  BIGSERIAL PRIMARY KEY,
			short_title TEXT NOT NULL UNIQUE,
			record      JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			control_number BIGSERIAL PRIMARY KEY,
			data           JSONB NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS workflows_audit (
			id         BIGSERIAL PRIMARY KEY,
			action     TEXT NOT NULL,
			payload    JSONB,
			object_id  BIGINT,
			user_id    BIGINT,
			source     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
