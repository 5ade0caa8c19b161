// Package vaults persists VaultRecord rows.
package vaults

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

// Repository stores vault records. GetForUpdate locks the row until the
// surrounding transaction ends.
type Repository interface {
	Create(ctx context.Context, v *models.VaultRecord) error
	Get(ctx context.Context, address identity.Identity) (*models.VaultRecord, error)
	GetForUpdate(ctx context.Context, address identity.Identity) (*models.VaultRecord, error)
	UpdateAuthority(ctx context.Context, address, authority identity.Identity) error
	SetWithdrawn(ctx context.Context, address identity.Identity, withdrawn uint64) error
}

const selectColumns = `address, authority, vault, mint, withdrawn, signer_bump, vault_bump`

func scanVault(row *sql.Row) (*models.VaultRecord, error) {
	v := &models.VaultRecord{}
	var withdrawn dbx.Uint64
	var signerBump, vaultBump int64

	err := row.Scan(&v.Address, &v.Authority, &v.Vault, &v.Mint, &withdrawn, &signerBump, &vaultBump)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if signerBump < 0 || signerBump > 255 || vaultBump < 0 || vaultBump > 255 {
		return nil, fmt.Errorf("db error: bump out of range (%d, %d)", signerBump, vaultBump)
	}

	v.Withdrawn = uint64(withdrawn)
	v.SignerBump = uint8(signerBump)
	v.VaultBump = uint8(vaultBump)
	return v, nil
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
