package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/mints"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/signatures"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/vaults"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager backs a single-node deployment (and the test
// suite) with an embedded SQLite database.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Vaults(db dbx.DBTX) vaults.Repository {
	return vaults.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Mints(db dbx.DBTX) mints.Repository {
	return mints.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Signatures(db dbx.DBTX) signatures.Repository {
	return signatures.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}
