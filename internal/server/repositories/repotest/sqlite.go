// Package repotest opens migrated in-memory SQLite databases for tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewSQLite returns a fresh, fully migrated database that lives until the
// test ends. The pool is limited to one connection, as in the server.
func NewSQLite(t testing.TB) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := sql.Open(repomanager.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.New(repomanager.DriverSQLite)
	if err != nil {
		t.Fatalf("repomanager: %v", err)
	}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db, m
}
