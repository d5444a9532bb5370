package sqlite

import (
	"database/sql"
	"os"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/rs/zerolog"

	"tasksapi/pkg/config"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_tasks_completed ON tasks (completed)`,
}

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens the file-backed sqlite store with the otel-instrumented
// driver and a zerolog query logger, applies the pool knobs and ensures
// the schema. Used for local runs; tests open :memory: directly.
func NewDB(cfg config.DBConfig) (*DB, error) {
	sqlDB, err := otelsql.Open("sqlite3", cfg.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("tasksapi"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MinConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger := zerolog.New(os.Stdout)
	db := sqldblogger.OpenDriver(cfg.Path, sqlDB.Driver(), zerologadapter.New(logger))

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}, nil
}

// FromSQL wraps an already-open handle, for the in-memory test database.
func FromSQL(db *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}
}

func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
