// Package accounts persists ledger token accounts.
package accounts

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
	Create(ctx context.Context, a *models.TokenAccount) error
	Get(ctx context.Context, address identity.Identity) (*models.TokenAccount, error)
	GetForUpdate(ctx context.Context, address identity.Identity) (*models.TokenAccount, error)
	SetAmount(ctx context.Context, address identity.Identity, amount uint64) error
	SetFrozen(ctx context.Context, address identity.Identity, frozen bool) error
}

const selectColumns = `address, mint, owner, amount, frozen`

func scanAccount(row *sql.Row) (*models.TokenAccount, error) {
	a := &models.TokenAccount{}
	var amount dbx.Uint64

	err := row.Scan(&a.Address, &a.Mint, &a.Owner, &amount, &a.Frozen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Amount = uint64(amount)
	return a, nil
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

func updateResult(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
