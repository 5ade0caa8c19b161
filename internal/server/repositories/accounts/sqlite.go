package accounts

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.TokenAccount) error {
	query := `INSERT INTO token_accounts (address, mint, owner, amount, frozen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		a.Address.String(), a.Mint.String(), a.Owner.String(), dbx.Uint64(a.Amount).String(), a.Frozen))
}

func (r *SQLiteRepository) Get(ctx context.Context, address identity.Identity) (*models.TokenAccount, error) {
	query := `SELECT ` + selectColumns + ` FROM token_accounts WHERE address = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *SQLiteRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.TokenAccount, error) {
	return r.Get(ctx, address)
}

func (r *SQLiteRepository) SetAmount(ctx context.Context, address identity.Identity, amount uint64) error {
	query := `UPDATE token_accounts SET amount = ? WHERE address = ?`
	return updateResult(r.db.ExecContext(ctx, query, dbx.Uint64(amount).String(), address.String()))
}

func (r *SQLiteRepository) SetFrozen(ctx context.Context, address identity.Identity, frozen bool) error {
	query := `UPDATE token_accounts SET frozen = ? WHERE address = ?`
	return updateResult(r.db.ExecContext(ctx, query, frozen, address.String()))
}
