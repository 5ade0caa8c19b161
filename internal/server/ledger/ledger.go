// Package ledger is the token ledger the vault controller moves balances
// through. It owns mints and token accounts and exposes Transfer as the only
// way to change a balance between accounts.
//
// Every method takes the caller's DBTX so that ledger effects commit or roll
// back together with the operation that triggered them.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/derive"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
)

// TransferRequest moves Amount from Source to Destination.
//
// The source owner authorizes the transfer either by being one of Signers
// or, for a keyless owner, by Proof recomputing to the owner address.
type TransferRequest struct {
	Source      identity.Identity
	Destination identity.Identity
	Amount      uint64
	Signers     []identity.Identity
	Proof       *derive.Proof
}

type CreateMintRequest struct {
	Address   identity.Identity
	Authority identity.Identity
	Decimals  uint8
	Signers   []identity.Identity
}

type CreateAccountRequest struct {
	Address identity.Identity
	Mint    identity.Identity
	Owner   identity.Identity
	Signers []identity.Identity
}

type MintToRequest struct {
	Mint    identity.Identity
	Account identity.Identity
	Amount  uint64
	Signers []identity.Identity
}

type SetFrozenRequest struct {
	Account identity.Identity
	Frozen  bool
	Signers []identity.Identity
}

type Ledger struct {
	repomanager repomanager.RepositoryManager
	programID   identity.Identity
}

func New(m repomanager.RepositoryManager, programID identity.Identity) *Ledger {
	return &Ledger{repomanager: m, programID: programID}
}

// Transfer debits the source and credits the destination inside tx.
// Failures are reported as common.ErrTransferFailed joined with the reason.
func (l *Ledger) Transfer(ctx context.Context, tx dbx.DBTX, req TransferRequest) error {
	if err := l.transfer(ctx, tx, req); err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransferFailed, err)
	}
	return nil
}

func (l *Ledger) transfer(ctx context.Context, tx dbx.DBTX, req TransferRequest) error {
	repo := l.repomanager.Accounts(tx)

	src, dst, err := lockPair(ctx, repo, req.Source, req.Destination)
	if err != nil {
		return err
	}

	if src.Mint != dst.Mint {
		return common.ErrMintMismatch
	}
	if src.Frozen || dst.Frozen {
		return common.ErrAccountFrozen
	}
	if err := l.authorize(src.Owner, req.Signers, req.Proof); err != nil {
		return err
	}
	if req.Amount > src.Amount {
		return fmt.Errorf("%w: balance %d, requested %d", common.ErrInsufficientFunds, src.Amount, req.Amount)
	}
	if src.Address == dst.Address || req.Amount == 0 {
		return nil
	}
	if dst.Amount > math.MaxUint64-req.Amount {
		return fmt.Errorf("%w: destination balance overflow", common.ErrInvalidAmount)
	}

	if err := repo.SetAmount(ctx, src.Address, src.Amount-req.Amount); err != nil {
		return err
	}
	return repo.SetAmount(ctx, dst.Address, dst.Amount+req.Amount)
}

// authorize checks that owner approved a transfer out of its account.
func (l *Ledger) authorize(owner identity.Identity, signers []identity.Identity, proof *derive.Proof) error {
	if proof != nil {
		if err := proof.Verify(l.programID, owner); err != nil {
			return fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil
	}
	if !slices.Contains(signers, owner) {
		return fmt.Errorf("%w: owner %s did not sign", common.ErrorUnauthorized, owner)
	}
	return nil
}

// lockPair locks both accounts in address order so that two transfers over
// the same pair cannot deadlock.
func lockPair(ctx context.Context, repo accountLocker, a, b identity.Identity) (*models.TokenAccount, *models.TokenAccount, error) {
	if a == b {
		acc, err := lock(ctx, repo, a)
		return acc, acc, err
	}

	first, second := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		first, second = b, a
	}
	x, err := lock(ctx, repo, first)
	if err != nil {
		return nil, nil, err
	}
	y, err := lock(ctx, repo, second)
	if err != nil {
		return nil, nil, err
	}
	if first != a {
		x, y = y, x
	}
	return x, y, nil
}

type accountLocker interface {
	GetForUpdate(ctx context.Context, address identity.Identity) (*models.TokenAccount, error)
}

func lock(ctx context.Context, repo accountLocker, address identity.Identity) (*models.TokenAccount, error) {
	acc, err := repo.GetForUpdate(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("account %s: %w", address, err)
		}
		return nil, err
	}
	return acc, nil
}

// OpenAccount creates an empty token account without checking signatures.
// Callers use it for addresses they derived themselves.
func (l *Ledger) OpenAccount(ctx context.Context, tx dbx.DBTX, address, mint, owner identity.Identity) (*models.TokenAccount, error) {
	if _, err := l.repomanager.Mints(tx).Get(ctx, mint); err != nil {
		return nil, fmt.Errorf("mint %s: %w", mint, err)
	}

	acc := &models.TokenAccount{Address: address, Mint: mint, Owner: owner}
	if err := l.repomanager.Accounts(tx).Create(ctx, acc); err != nil {
		return nil, fmt.Errorf("account %s: %w", address, err)
	}
	return acc, nil
}

// LockAccount reads an account and holds its row lock until tx ends.
func (l *Ledger) LockAccount(ctx context.Context, tx dbx.DBTX, address identity.Identity) (*models.TokenAccount, error) {
	return lock(ctx, l.repomanager.Accounts(tx), address)
}

func (l *Ledger) GetAccount(ctx context.Context, db dbx.DBTX, address identity.Identity) (*models.TokenAccount, error) {
	acc, err := l.repomanager.Accounts(db).Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", address, err)
	}
	return acc, nil
}

func (l *Ledger) GetMint(ctx context.Context, db dbx.DBTX, address identity.Identity) (*models.Mint, error) {
	m, err := l.repomanager.Mints(db).Get(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("mint %s: %w", address, err)
	}
	return m, nil
}

// CreateMint registers a new mint. The mint address must sign its own
// creation, which keeps derived (keyless) addresses out of reach.
func (l *Ledger) CreateMint(ctx context.Context, tx dbx.DBTX, req CreateMintRequest) (*models.Mint, error) {
	if req.Address.IsZero() || req.Authority.IsZero() {
		return nil, common.ErrInvalidIdentity
	}
	if !slices.Contains(req.Signers, req.Address) {
		return nil, fmt.Errorf("%w: mint address must sign", common.ErrorUnauthorized)
	}

	m := &models.Mint{Address: req.Address, Authority: req.Authority, Decimals: req.Decimals}
	if err := l.repomanager.Mints(tx).Create(ctx, m); err != nil {
		return nil, fmt.Errorf("mint %s: %w", req.Address, err)
	}
	return m, nil
}

// CreateAccount opens a token account at a self-signed address.
func (l *Ledger) CreateAccount(ctx context.Context, tx dbx.DBTX, req CreateAccountRequest) (*models.TokenAccount, error) {
	if req.Address.IsZero() || req.Owner.IsZero() {
		return nil, common.ErrInvalidIdentity
	}
	if !slices.Contains(req.Signers, req.Address) {
		return nil, fmt.Errorf("%w: account address must sign", common.ErrorUnauthorized)
	}
	return l.OpenAccount(ctx, tx, req.Address, req.Mint, req.Owner)
}

// MintTo issues new tokens into an account. The mint authority must sign.
func (l *Ledger) MintTo(ctx context.Context, tx dbx.DBTX, req MintToRequest) (*models.TokenAccount, error) {
	if req.Amount == 0 {
		return nil, common.ErrInvalidAmount
	}

	mints := l.repomanager.Mints(tx)
	m, err := mints.GetForUpdate(ctx, req.Mint)
	if err != nil {
		return nil, fmt.Errorf("mint %s: %w", req.Mint, err)
	}
	if !slices.Contains(req.Signers, m.Authority) {
		return nil, fmt.Errorf("%w: mint authority must sign", common.ErrorUnauthorized)
	}

	acc, err := l.LockAccount(ctx, tx, req.Account)
	if err != nil {
		return nil, err
	}
	if acc.Mint != m.Address {
		return nil, common.ErrMintMismatch
	}
	if acc.Frozen {
		return nil, common.ErrAccountFrozen
	}
	if m.Supply > math.MaxUint64-req.Amount || acc.Amount > math.MaxUint64-req.Amount {
		return nil, fmt.Errorf("%w: supply overflow", common.ErrInvalidAmount)
	}

	if err := mints.SetSupply(ctx, m.Address, m.Supply+req.Amount); err != nil {
		return nil, err
	}
	acc.Amount += req.Amount
	if err := l.repomanager.Accounts(tx).SetAmount(ctx, acc.Address, acc.Amount); err != nil {
		return nil, err
	}
	return acc, nil
}

// SetFrozen freezes or thaws an account. The authority of the account's
// mint must sign.
func (l *Ledger) SetFrozen(ctx context.Context, tx dbx.DBTX, req SetFrozenRequest) (*models.TokenAccount, error) {
	acc, err := l.LockAccount(ctx, tx, req.Account)
	if err != nil {
		return nil, err
	}
	m, err := l.GetMint(ctx, tx, acc.Mint)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(req.Signers, m.Authority) {
		return nil, fmt.Errorf("%w: mint authority must sign", common.ErrorUnauthorized)
	}

	if acc.Frozen == req.Frozen {
		return acc, nil
	}
	if err := l.repomanager.Accounts(tx).SetFrozen(ctx, acc.Address, req.Frozen); err != nil {
		return nil, err
	}
	acc.Frozen = req.Frozen
	return acc, nil
}
