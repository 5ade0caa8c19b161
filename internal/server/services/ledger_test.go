package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Administration(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := identity.Generate().Public
	acc := e.account(t, owner, 25)
	assert.Equal(t, uint64(25), e.balance(t, acc))

	m, err := e.admin.GetMint(ctx, e.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), m.Supply)
	assert.Equal(t, uint8(2), m.Decimals)

	_, err = e.admin.MintTo(ctx, ledger.MintToRequest{Mint: e.mint, Account: acc, Amount: 1}, sign(owner))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	got, err := e.admin.SetFrozen(ctx, ledger.SetFrozenRequest{Account: acc, Frozen: true}, sign(e.mintAuth))
	require.NoError(t, err)
	assert.True(t, got.Frozen)

	_, err = e.admin.MintTo(ctx, ledger.MintToRequest{Mint: e.mint, Account: acc, Amount: 1}, sign(e.mintAuth))
	assert.ErrorIs(t, err, common.ErrAccountFrozen)

	assert.Contains(t, e.archive.operations(), "create_mint")
	assert.Contains(t, e.archive.operations(), "set_frozen")
}

func TestLedgerService_PruneSignatures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// newEnv consumed one proof for the mint; add one that has already expired.
	addr := identity.Generate().Public
	expired := sign(addr)
	expired[0].ExpiresAt = time.Now().Add(-time.Hour)
	_, err := e.admin.CreateAccount(ctx, ledger.CreateAccountRequest{Address: addr, Mint: e.mint, Owner: addr}, expired)
	require.NoError(t, err)

	n, err := e.admin.PruneSignatures(ctx, time.Now().Unix())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLedgerService_PruneKeepsProofsInsideLeeway(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner := identity.Generate().Public
	src := e.account(t, owner, 50)
	rec := e.initVault(t, identity.Generate().Public)

	// Expired a second ago, still accepted by verification within auth.ClockSkew.
	proofs := sign(owner)
	proofs[0].ExpiresAt = time.Now().Add(-time.Second)
	req := DepositRequest{Record: rec.Address, Vault: rec.Vault, Source: src, Amount: 10}
	_, err := e.vaults.Deposit(ctx, req, proofs)
	require.NoError(t, err)

	now := time.Now().Unix()
	n, err := e.admin.PruneSignatures(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.vaults.Deposit(ctx, req, proofs)
	assert.ErrorIs(t, err, common.ErrReplay)
	assert.Equal(t, uint64(10), e.balance(t, rec.Vault))
	assert.Equal(t, uint64(40), e.balance(t, src))

	n, err = e.admin.PruneSignatures(ctx, now+int64(auth.ClockSkew/time.Second)+2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
