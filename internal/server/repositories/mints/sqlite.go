package mints

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
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

func (r *SQLiteRepository) Create(ctx context.Context, m *models.Mint) error {
	query := `INSERT INTO mints (address, authority, decimals, supply)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (address) DO NOTHING`

	return insertResult(r.db.ExecContext(ctx, query,
		m.Address.String(), m.Authority.String(), int(m.Decimals), dbx.Uint64(m.Supply).String()))
}

func (r *SQLiteRepository) Get(ctx context.Context, address identity.Identity) (*models.Mint, error) {
	query := `SELECT ` + selectColumns + ` FROM mints WHERE address = ?`
	return scanMint(r.db.QueryRowContext(ctx, query, address.String()))
}

func (r *SQLiteRepository) GetForUpdate(ctx context.Context, address identity.Identity) (*models.Mint, error) {
	return r.Get(ctx, address)
}

func (r *SQLiteRepository) SetSupply(ctx context.Context, address identity.Identity, supply uint64) error {
	query := `UPDATE mints SET supply = ? WHERE address = ?`
	res, err := r.db.ExecContext(ctx, query, dbx.Uint64(supply).String(), address.String())
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
