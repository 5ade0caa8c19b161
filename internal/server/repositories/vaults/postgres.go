package vaults

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

// PostgresRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a new PostgresRepository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record. An existing record at the same address is
// reported as common.ErrAlreadyExists and left untouched.
func (r *PostgresRepository) Create(ctx context.Context, v *models.VaultRecord) error {
	query := `INSERT INTO vaults (address, authority, vault, mint, withdrawn, signer_bump, vault_bump)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		v.Address.String(), v.Authority.String(), v.Vault.String(), v.Mint.String(),
		dbx.Uint64(v.Withdrawn).String(), int(v.SignerBump), int(v.VaultBump)))
}

func (r *PostgresRepository) Get(ctx context.Context, address identity.Identity) (*models.VaultRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM vaults WHERE address = $1`
	return scanVault(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.VaultRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM vaults WHERE address = $1 FOR UPDATE`
	return scanVault(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) UpdateAuthority(ctx context.Context, address, authority identity.Identity) error {
	query := `UPDATE vaults SET authority = $2 WHERE address = $1`
	return updateResult(r.db.ExecContext(ctx, query, address.String(), authority.String()))
}

func (r *PostgresRepository) SetWithdrawn(ctx context.Context, address identity.Identity, withdrawn uint64) error {
	query := `UPDATE vaults SET withdrawn = $2 WHERE address = $1`
	return updateResult(r.db.ExecContext(ctx, query, address.String(), dbx.Uint64(withdrawn).String()))
}
