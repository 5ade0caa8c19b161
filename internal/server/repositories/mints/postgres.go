package mints

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
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

func (r *PostgresRepository) Create(ctx context.Context, m *models.Mint) error {
	query := `INSERT INTO mints (address, authority, decimals, supply)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		m.Address.String(), m.Authority.String(), int(m.Decimals), dbx.Uint64(m.Supply).String()))
}

func (r *PostgresRepository) Get(ctx context.Context, address identity.Identity) (*models.Mint, error) {
	query := `SELECT ` + selectColumns + ` FROM mints WHERE address = $1`
	return scanMint(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.Mint, error) {
	query := `SELECT ` + selectColumns + ` FROM mints WHERE address = $1 FOR UPDATE`
	return scanMint(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *PostgresRepository) SetSupply(ctx context.Context, address identity.Identity, supply uint64) error {
	query := `UPDATE mints SET supply = $2 WHERE address = $1`
	res, err := r.db.ExecContext(ctx, query, address.String(), dbx.Uint64(supply).String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("db error: %w", err)
	} else if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
