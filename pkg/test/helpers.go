package test

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"tasksapi/internal/adapter/database/sqlite"
)

// InitTestDB opens a fresh in-memory store with the schema applied.
func InitTestDB() *sqlite.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	// Every pooled connection to :memory: would open its own empty
	// database, so the test pool is pinned to a single connection.
	db.SetMaxOpenConns(1)

	if err := sqlite.EnsureSchema(db); err != nil {
		log.Fatal(err)
	}

	return sqlite.FromSQL(db)
}
