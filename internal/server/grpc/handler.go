package grpc

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/derive"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
)

func (s *GRPCServer) Initialize(ctx context.Context, req *rpc.InitializeRequest) (*rpc.Vault, error) {

	rec, err := s.vaults.Initialize(ctx, services.InitializeRequest{
		Record:    req.Record,
		Authority: req.Authority,
		Mint:      req.Mint,
		Payer:     req.Payer,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "initialize failed", "record", req.Record, "error", err)
		return nil, s.toStatus(err)
	}

	return vaultToRPC(rec, 0), nil
}

func (s *GRPCServer) UpdateAuthority(ctx context.Context, req *rpc.UpdateAuthorityRequest) (*rpc.Vault, error) {

	rec, err := s.vaults.UpdateAuthority(ctx, services.UpdateAuthorityRequest{
		Record:       req.Record,
		NewAuthority: req.NewAuthority,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "update authority failed", "record", req.Record, "error", err)
		return nil, s.toStatus(err)
	}

	view, err := s.vaults.GetVault(ctx, rec.Address)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return vaultToRPC(view.Record, view.Balance), nil
}

func (s *GRPCServer) Deposit(ctx context.Context, req *rpc.DepositRequest) (*rpc.DepositResponse, error) {

	acc, err := s.vaults.Deposit(ctx, services.DepositRequest{
		Record: req.Record,
		Vault:  req.Vault,
		Source: req.Source,
		Amount: req.Amount,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "deposit failed", "record", req.Record, "error", err)
		return nil, s.toStatus(err)
	}

	return &rpc.DepositResponse{Vault: *accountToRPC(acc)}, nil
}

func (s *GRPCServer) Withdraw(ctx context.Context, req *rpc.WithdrawRequest) (*rpc.WithdrawResponse, error) {

	res, err := s.vaults.Withdraw(ctx, services.WithdrawRequest{
		Record:      req.Record,
		Vault:       req.Vault,
		Destination: req.Destination,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "withdraw failed", "record", req.Record, "error", err)
		return nil, s.toStatus(err)
	}

	return &rpc.WithdrawResponse{Vault: *vaultToRPC(res.Record, 0), Amount: res.Amount}, nil
}

func (s *GRPCServer) GetVault(ctx context.Context, req *rpc.GetVaultRequest) (*rpc.Vault, error) {

	view, err := s.vaults.GetVault(ctx, req.Record)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return vaultToRPC(view.Record, view.Balance), nil
}

func (s *GRPCServer) CreateMint(ctx context.Context, req *rpc.CreateMintRequest) (*rpc.Mint, error) {

	m, err := s.ledger.CreateMint(ctx, ledger.CreateMintRequest{
		Address:   req.Address,
		Authority: req.Authority,
		Decimals:  req.Decimals,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "create mint failed", "mint", req.Address, "error", err)
		return nil, s.toStatus(err)
	}

	return &rpc.Mint{Address: m.Address, Authority: m.Authority, Decimals: m.Decimals, Supply: m.Supply}, nil
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *rpc.CreateAccountRequest) (*rpc.Account, error) {

	acc, err := s.ledger.CreateAccount(ctx, ledger.CreateAccountRequest{
		Address: req.Address,
		Mint:    req.Mint,
		Owner:   req.Owner,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "create account failed", "account", req.Address, "error", err)
		return nil, s.toStatus(err)
	}

	return accountToRPC(acc), nil
}

func (s *GRPCServer) MintTo(ctx context.Context, req *rpc.MintToRequest) (*rpc.Account, error) {

	acc, err := s.ledger.MintTo(ctx, ledger.MintToRequest{
		Mint:    req.Mint,
		Account: req.Account,
		Amount:  req.Amount,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "mint to failed", "account", req.Account, "error", err)
		return nil, s.toStatus(err)
	}

	return accountToRPC(acc), nil
}

func (s *GRPCServer) SetFrozen(ctx context.Context, req *rpc.SetFrozenRequest) (*rpc.Account, error) {

	acc, err := s.ledger.SetFrozen(ctx, ledger.SetFrozenRequest{
		Account: req.Account,
		Frozen:  req.Frozen,
	}, auth.SignersFromContext(ctx))
	if err != nil {
		s.logger.Error(ctx, "set frozen failed", "account", req.Account, "error", err)
		return nil, s.toStatus(err)
	}

	return accountToRPC(acc), nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, req *rpc.GetAccountRequest) (*rpc.Account, error) {

	acc, err := s.ledger.GetAccount(ctx, req.Address)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return accountToRPC(acc), nil
}

// Derive reports the addresses Initialize would assign to a record, so a
// client can name the vault in Deposit and Withdraw.
func (s *GRPCServer) Derive(ctx context.Context, req *rpc.DeriveRequest) (*rpc.DeriveResponse, error) {

	signer, signerBump, err := derive.Derive(s.programID, derive.SignerTag, req.Record)
	if err != nil {
		return nil, s.toStatus(err)
	}
	vault, vaultBump, err := derive.Derive(s.programID, derive.VaultTag, req.Record)
	if err != nil {
		return nil, s.toStatus(err)
	}

	return &rpc.DeriveResponse{
		ProgramID:  s.programID,
		Signer:     signer,
		SignerBump: signerBump,
		Vault:      vault,
		VaultBump:  vaultBump,
	}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {

	return &rpc.PingResponse{Status: "OK"}, nil

}

func vaultToRPC(r *models.VaultRecord, balance uint64) *rpc.Vault {
	return &rpc.Vault{
		Address:    r.Address,
		Authority:  r.Authority,
		Vault:      r.Vault,
		Mint:       r.Mint,
		Withdrawn:  r.Withdrawn,
		SignerBump: r.SignerBump,
		VaultBump:  r.VaultBump,
		Balance:    balance,
	}
}

func accountToRPC(a *models.TokenAccount) *rpc.Account {
	return &rpc.Account{Address: a.Address, Mint: a.Mint, Owner: a.Owner, Amount: a.Amount, Frozen: a.Frozen}
}
