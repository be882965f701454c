// Package testutil backs repository tests with an in-memory SQLite database carrying the application
// schema, so the generic repository's SQL runs against a real engine.
package testutil

import (
	_ "embed"
	"rento/infras/postgres"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// NewSQLite opens a private in-memory database. It is closed when the test ends.
func NewSQLite(t *testing.T) *postgres.Connection {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return postgres.NewFromDB(db)
}

// Exec runs a raw statement, for seeding rows a test does not create through a repository.
func Exec(t *testing.T, conn *postgres.Connection, query string, args ...any) {
	t.Helper()

	if _, err := conn.Write.Exec(query, args...); err != nil {
		t.Fatalf("failed to exec %q: %v", query, err)
	}
}
