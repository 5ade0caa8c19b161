package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/receipts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repomanager"
)

// LedgerService exposes mint and account administration over the token
// ledger, with the same proof consumption as the vault operations.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ledger      *ledger.Ledger
	receipts    receipts.Archive
	logger      logging.Logger
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, l *ledger.Ledger,
	archive receipts.Archive, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		ledger:      l,
		receipts:    archive,
		logger:      logger.With("module", "ledger"),
	}
}

func (s *LedgerService) CreateMint(ctx context.Context, req ledger.CreateMintRequest, signers auth.Signers) (*models.Mint, error) {
	req.Signers = signers.Identities()
	m, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Mint, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}
		return s.ledger.CreateMint(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "mint created", "mint", m.Address, "authority", m.Authority, "decimals", m.Decimals)
	archive(ctx, s.receipts, s.logger, receipts.New("create_mint", m.Address, 0, req.Signers))
	return m, nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, req ledger.CreateAccountRequest, signers auth.Signers) (*models.TokenAccount, error) {
	req.Signers = signers.Identities()
	acc, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.TokenAccount, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}
		return s.ledger.CreateAccount(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account created", "account", acc.Address, "mint", acc.Mint, "owner", acc.Owner)
	archive(ctx, s.receipts, s.logger, receipts.New("create_account", acc.Address, 0, req.Signers))
	return acc, nil
}

func (s *LedgerService) MintTo(ctx context.Context, req ledger.MintToRequest, signers auth.Signers) (*models.TokenAccount, error) {
	req.Signers = signers.Identities()
	acc, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.TokenAccount, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}
		return s.ledger.MintTo(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "minted", "account", acc.Address, "amount", req.Amount)
	archive(ctx, s.receipts, s.logger, receipts.New("mint_to", acc.Address, req.Amount, req.Signers))
	return acc, nil
}

func (s *LedgerService) SetFrozen(ctx context.Context, req ledger.SetFrozenRequest, signers auth.Signers) (*models.TokenAccount, error) {
	req.Signers = signers.Identities()
	acc, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.TokenAccount, error) {
		if err := consume(ctx, s.repomanager, tx, signers); err != nil {
			return nil, err
		}
		return s.ledger.SetFrozen(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "freeze state changed", "account", acc.Address, "frozen", acc.Frozen)
	archive(ctx, s.receipts, s.logger, receipts.New("set_frozen", acc.Address, 0, req.Signers))
	return acc, nil
}

func (s *LedgerService) GetAccount(ctx context.Context, address identity.Identity) (*models.TokenAccount, error) {
	return s.ledger.GetAccount(ctx, s.db, address)
}

func (s *LedgerService) GetMint(ctx context.Context, address identity.Identity) (*models.Mint, error) {
	return s.ledger.GetMint(ctx, s.db, address)
}

// PruneSignatures forgets proofs that verification can no longer accept:
// those that expired more than auth.ClockSkew before now.
func (s *LedgerService) PruneSignatures(ctx context.Context, now int64) (int64, error) {
	cutoff := now - int64(auth.ClockSkew/time.Second)
	return s.repomanager.Signatures(s.db).DeleteExpired(ctx, cutoff)
}
