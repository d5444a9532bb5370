package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasksapi/pkg/config"
)

// schemaStatements is the idempotent table bootstrap issued at startup.
// SERIAL keeps a named sequence (tasks_id_seq) behind id so it can be
// restarted by the reset operation.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		description VARCHAR(500),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_tasks_completed ON tasks (completed)`,
}

type DB struct {
	*pgxpool.Pool
	QueryBuilder *squirrel.StatementBuilderType
}

func NewDB(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)

	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)

	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	db := &DB{
		Pool:         pool,
		QueryBuilder: &psql,
	}

	if err := db.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
