// Package mints persists ledger mints.
package mints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Mint) error
	Get(ctx context.Context, address identity.Identity) (*models.Mint, error)
	GetForUpdate(ctx context.Context, address identity.Identity) (*models.Mint, error)
	SetSupply(ctx context.Context, address identity.Identity, supply uint64) error
}

const selectColumns = `address, authority, decimals, supply`

func scanMint(row *sql.Row) (*models.Mint, error) {
	m := &models.Mint{}
	var decimals int64
	var supply dbx.Uint64

	err := row.Scan(&m.Address, &m.Authority, &decimals, &supply)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if decimals < 0 || decimals > 255 {
		return nil, fmt.Errorf("db error: decimals out of range (%d)", decimals)
	}
	m.Decimals = uint8(decimals)
	m.Supply = uint64(supply)
	return m, nil
}

func insertResult(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}
