package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/derive"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/receipts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
)

// TokenLedger is the part of the token ledger the vault operations use.
type TokenLedger interface {
	OpenAccount(ctx context.Context, tx dbx.DBTX, address, mint, owner identity.Identity) (*models.TokenAccount, error)
	LockAccount(ctx context.Context, tx dbx.DBTX, address identity.Identity) (*models.TokenAccount, error)
	GetAccount(ctx context.Context, db dbx.DBTX, address identity.Identity) (*models.TokenAccount, error)
	Transfer(ctx context.Context, tx dbx.DBTX, req ledger.TransferRequest) error
}

type InitializeRequest struct {
	Record    identity.Identity
	Authority identity.Identity
	Mint      identity.Identity
	Payer     identity.Identity
}

type UpdateAuthorityRequest struct {
	Record       identity.Identity
	NewAuthority identity.Identity
}

type DepositRequest struct {
	Record identity.Identity
	Vault  identity.Identity
	Source identity.Identity
	Amount uint64
}

type WithdrawRequest struct {
	Record      identity.Identity
	Vault       identity.Identity
	Destination identity.Identity
}

// VaultView is a record together with the balance of its holding account.
type VaultView struct {
	Record  *models.VaultRecord
	Balance uint64
}

// WithdrawResult is the updated record and the amount that left the vault.
type WithdrawResult struct {
	Record *models.VaultRecord
	Amount uint64
}

// VaultService implements Initialize, UpdateAuthority, Deposit and
// Withdraw. Each operation runs in one transaction: validation, the ledger
// transfer and the record update commit together or not at all.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ledger      TokenLedger
	programID   identity.Identity
	receipts    receipts.Archive
	logger      logging.Logger
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, l TokenLedger, programID identity.Identity,
	archive receipts.Archive, logger logging.Logger) *VaultService {
	return &VaultService{
		db:          db,
		repomanager: m,
		ledger:      l,
		programID:   programID,
		receipts:    archive,
		logger:      logger.With("module", "vaults"),
	}
}

// Initialize creates the record at req.Record and its holding account.
// The record address and the payer must both sign; the authority is only
// recorded.
func (s *VaultService) Initialize(ctx context.Context, req InitializeRequest, signers auth.Signers) (*models.VaultRecord, error) {
	if req.Record.IsZero() || req.Authority.IsZero() || req.Mint.IsZero() || req.Payer.IsZero() {
		return nil, common.ErrInvalidIdentity
	}
	if !signers.Has(req.Payer) {
		return nil, fmt.Errorf("%w: payer must sign", common.ErrorUnauthorized)
	}
	if !signers.Has(req.Record) {
		return nil, fmt.Errorf("%w: record address must sign", common.ErrorUnauthorized)
	}

	signer, signerBump, err := derive.Derive(s.programID, derive.SignerTag, req.Record)
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}
	vault, vaultBump, err := derive.Derive(s.programID, derive.VaultTag, req.Record)
	if err != nil {
		return nil, fmt.Errorf("derive vault: %w", err)
	}

	rec := &models.VaultRecord{
		Address:    req.Record,
		Authority:  req.Authority,
		Vault:      vault,
		Mint:       req.Mint,
		SignerBump: signerBump,
		VaultBump:  vaultBump,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return err
		}

		repo := s.repomanager.Vaults(tx)
		if _, err := repo.Get(ctx, req.Record); err == nil {
			return fmt.Errorf("vault %s: %w", req.Record, common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := s.ledger.OpenAccount(ctx, tx, vault, req.Mint, signer); err != nil {
			return err
		}
		return repo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vault initialized", "record", rec.Address, "vault", rec.Vault, "mint", rec.Mint)
	archive(ctx, s.receipts, s.logger, receipts.New("initialize", rec.Address, 0, signers.Identities()))
	return rec, nil
}

// UpdateAuthority hands the record to a new authority. The current
// authority must sign.
func (s *VaultService) UpdateAuthority(ctx context.Context, req UpdateAuthorityRequest, signers auth.Signers) (*models.VaultRecord, error) {
	if req.NewAuthority.IsZero() {
		return nil, common.ErrInvalidIdentity
	}

	rec, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.VaultRecord, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}

		repo := s.repomanager.Vaults(tx)
		rec, err := repo.GetForUpdate(ctx, req.Record)
		if err != nil {
			return nil, fmt.Errorf("vault %s: %w", req.Record, err)
		}
		if !signers.Has(rec.Authority) {
			return nil, fmt.Errorf("%w: authority must sign", common.ErrorUnauthorized)
		}

		if err := repo.UpdateAuthority(ctx, rec.Address, req.NewAuthority); err != nil {
			return nil, err
		}
		rec.Authority = req.NewAuthority
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "authority updated", "record", rec.Address, "authority", rec.Authority)
	archive(ctx, s.receipts, s.logger, receipts.New("update_authority", rec.Address, 0, signers.Identities()))
	return rec, nil
}

// Deposit moves req.Amount from req.Source into the holding account. The
// ledger checks that the source owner signed; the record is not changed.
func (s *VaultService) Deposit(ctx context.Context, req DepositRequest, signers auth.Signers) (*models.TokenAccount, error) {
	if req.Amount == 0 {
		return nil, common.ErrInvalidAmount
	}

	acc, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.TokenAccount, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}

		rec, err := s.repomanager.Vaults(tx).GetForUpdate(ctx, req.Record)
		if err != nil {
			return nil, fmt.Errorf("vault %s: %w", req.Record, err)
		}
		if err := s.checkVault(rec, req.Vault); err != nil {
			return nil, err
		}

		err = s.ledger.Transfer(ctx, tx, ledger.TransferRequest{
			Source:      req.Source,
			Destination: rec.Vault,
			Amount:      req.Amount,
			Signers:     signers.Identities(),
		})
		if err != nil {
			return nil, err
		}
		return s.ledger.GetAccount(ctx, tx, rec.Vault)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "deposit", "record", req.Record, "amount", req.Amount, "balance", acc.Amount)
	archive(ctx, s.receipts, s.logger, receipts.New("deposit", req.Record, req.Amount, signers.Identities()))
	return acc, nil
}

// Withdraw drains the whole holding account into req.Destination and adds
// the amount to the record's withdrawn counter. The authority must sign;
// the transfer itself is authorized by the record's derived signer.
func (s *VaultService) Withdraw(ctx context.Context, req WithdrawRequest, signers auth.Signers) (*WithdrawResult, error) {
	var amount uint64

	rec, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.VaultRecord, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}

		repo := s.repomanager.Vaults(tx)
		rec, err := repo.GetForUpdate(ctx, req.Record)
		if err != nil {
			return nil, fmt.Errorf("vault %s: %w", req.Record, err)
		}
		if !signers.Has(rec.Authority) {
			return nil, fmt.Errorf("%w: authority must sign", common.ErrorUnauthorized)
		}
		if err := s.checkVault(rec, req.Vault); err != nil {
			return nil, err
		}
		if req.Destination == rec.Vault {
			return nil, fmt.Errorf("%w: destination is the vault itself", common.ErrBindingMismatch)
		}

		acc, err := s.ledger.LockAccount(ctx, tx, rec.Vault)
		if err != nil {
			return nil, err
		}
		if acc.Amount == 0 {
			return nil, fmt.Errorf("%w: vault is empty", common.ErrInvalidAmount)
		}
		amount = acc.Amount

		proof := rec.SignerProof()
		err = s.ledger.Transfer(ctx, tx, ledger.TransferRequest{
			Source:      rec.Vault,
			Destination: req.Destination,
			Amount:      amount,
			Proof:       &proof,
		})
		if err != nil {
			return nil, err
		}

		rec.RecordWithdrawal(amount)
		if err := repo.SetWithdrawn(ctx, rec.Address, rec.Withdrawn); err != nil {
			return nil, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "withdraw", "record", rec.Address, "amount", amount, "withdrawn", rec.Withdrawn)
	archive(ctx, s.receipts, s.logger, receipts.New("withdraw", rec.Address, amount, signers.Identities()))
	return &WithdrawResult{Record: rec, Amount: amount}, nil
}

// GetVault returns the record and the current holding balance.
func (s *VaultService) GetVault(ctx context.Context, record identity.Identity) (*VaultView, error) {
	rec, err := s.repomanager.Vaults(s.db).Get(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("vault %s: %w", record, err)
	}
	acc, err := s.ledger.GetAccount(ctx, s.db, rec.Vault)
	if err != nil {
		return nil, err
	}
	return &VaultView{Record: rec, Balance: acc.Amount}, nil
}

// checkVault verifies that the supplied account is the record's holding
// account and that the stored bump still derives it.
func (s *VaultService) checkVault(rec *models.VaultRecord, supplied identity.Identity) error {
	if supplied != rec.Vault {
		return fmt.Errorf("%w: vault %s, record holds %s", common.ErrBindingMismatch, supplied, rec.Vault)
	}
	if err := rec.VaultProof().Verify(s.programID, rec.Vault); err != nil {
		return fmt.Errorf("%w: %w", common.ErrBindingMismatch, err)
	}
	return nil
}
