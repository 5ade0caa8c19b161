package accounts

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.TokenAccount) error {
	query := `INSERT INTO token_accounts (address, mint, owner, amount, frozen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		a.Address.String(), a.Mint.String(), a.Owner.String(), dbx.Uint64(a.Amount).String(), a.Frozen))
}

func (r *PostgresRepository) Get(ctx context.Context, address identity.Identity) (*models.TokenAccount, error) {
	query := `SELECT ` + selectColumns + ` FROM token_accounts WHERE address = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.TokenAccount, error) {
	query := `SELECT ` + selectColumns + ` FROM token_accounts WHERE address = $1 FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) SetAmount(ctx context.Context, address identity.Identity, amount uint64) error {
	query := `UPDATE token_accounts SET amount = $2 WHERE address = $1`
	return updateResult(r.db.ExecContext(ctx, query, address.String(), dbx.Uint64(amount).String()))
}

func (r *PostgresRepository) SetFrozen(ctx context.Context, address identity.Identity, frozen bool) error {
	query := `UPDATE token_accounts SET frozen = $2 WHERE address = $1`
	return updateResult(r.db.ExecContext(ctx, query, address.String(), frozen))
}
