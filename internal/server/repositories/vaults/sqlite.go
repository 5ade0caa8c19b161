package vaults

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

// SQLiteRepository implements Repository for SQLite. SQLite has no row
// locks; writers are serialized by the database, so GetForUpdate is a
// plain read inside the caller's transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, v *models.VaultRecord) error {
	query := `INSERT INTO vaults (address, authority, vault, mint, withdrawn, signer_bump, vault_bump)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		v.Address.String(), v.Authority.String(), v.Vault.String(), v.Mint.String(),
		dbx.Uint64(v.Withdrawn).String(), int(v.SignerBump), int(v.VaultBump)))
}

func (r *SQLiteRepository) Get(ctx context.Context, address identity.Identity) (*models.VaultRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM vaults WHERE address = ?`
	return scanVault(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *SQLiteRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.VaultRecord, error) {
	return r.Get(ctx, address)
}

func (r *SQLiteRepository) UpdateAuthority(ctx context.Context, address, authority identity.Identity) error {
	query := `UPDATE vaults SET authority = ? WHERE address = ?`
	return updateResult(r.db.ExecContext(ctx, query, authority.String(), address.String()))
}

func (r *SQLiteRepository) SetWithdrawn(ctx context.Context, address identity.Identity, withdrawn uint64) error {
	query := `UPDATE vaults SET withdrawn = ? WHERE address = ?`
	return updateResult(r.db.ExecContext(ctx, query, dbx.Uint64(withdrawn).String(), address.String()))
}
