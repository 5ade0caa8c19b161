package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/mints"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/signatures"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/vaults"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNew_SelectsManagerByDriver(t *testing.T) {
	m, err := New(DriverPostgres)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*PostgresRepositoryManager); !ok {
		t.Fatalf("want *PostgresRepositoryManager, got %T", m)
	}

	m, err = New(DriverSQLite)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*SQLiteRepositoryManager); !ok {
		t.Fatalf("want *SQLiteRepositoryManager, got %T", m)
	}

	if _, err := New("mysql"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, m := range []RepositoryManager{&PostgresRepositoryManager{}, &SQLiteRepositoryManager{}} {
		if v := m.Vaults(db); v == nil {
			t.Fatal("Vaults() nil")
		}
		if a := m.Accounts(db); a == nil {
			t.Fatal("Accounts() nil")
		}
		if mi := m.Mints(db); mi == nil {
			t.Fatal("Mints() nil")
		}
		if s := m.Signatures(db); s == nil {
			t.Fatal("Signatures() nil")
		}
	}

	var _ vaults.Repository = (&PostgresRepositoryManager{}).Vaults(db)
	var _ accounts.Repository = (&SQLiteRepositoryManager{}).Accounts(db)
	var _ mints.Repository = (&PostgresRepositoryManager{}).Mints(db)
	var _ signatures.Repository = (&SQLiteRepositoryManager{}).Signatures(db)
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var gotDir string
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	if err := (&PostgresRepositoryManager{}).RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if gotDir != migrations.PostgresDir {
		t.Fatalf("want dir %q, got %q", migrations.PostgresDir, gotDir)
	}

	if err := (&SQLiteRepositoryManager{}).RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if gotDir != migrations.SQLiteDir {
		t.Fatalf("want dir %q, got %q", migrations.SQLiteDir, gotDir)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSQLiteMigrations_ApplyForReal(t *testing.T) {
	db, err := sql.Open(DriverSQLite, "file:repomanager_migrations?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := (&SQLiteRepositoryManager{}).RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	for _, table := range []string{"mints", "token_accounts", "vaults", "used_signatures"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}
