package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// VaultOperations is implemented by services.VaultService.
type VaultOperations interface {
	Initialize(ctx context.Context, req services.InitializeRequest, signers auth.Signers) (*models.VaultRecord, error)
	UpdateAuthority(ctx context.Context, req services.UpdateAuthorityRequest, signers auth.Signers) (*models.VaultRecord, error)
	Deposit(ctx context.Context, req services.DepositRequest, signers auth.Signers) (*models.TokenAccount, error)
	Withdraw(ctx context.Context, req services.WithdrawRequest, signers auth.Signers) (*services.WithdrawResult, error)
	GetVault(ctx context.Context, record identity.Identity) (*services.VaultView, error)
}

// LedgerOperations is implemented by services.LedgerService.
type LedgerOperations interface {
	CreateMint(ctx context.Context, req ledger.CreateMintRequest, signers auth.Signers) (*models.Mint, error)
	CreateAccount(ctx context.Context, req ledger.CreateAccountRequest, signers auth.Signers) (*models.TokenAccount, error)
	MintTo(ctx context.Context, req ledger.MintToRequest, signers auth.Signers) (*models.TokenAccount, error)
	SetFrozen(ctx context.Context, req ledger.SetFrozenRequest, signers auth.Signers) (*models.TokenAccount, error)
	GetAccount(ctx context.Context, address identity.Identity) (*models.TokenAccount, error)
}

type GRPCServer struct {
	address   string
	vaults    VaultOperations
	ledger    LedgerOperations
	verifier  *auth.Verifier
	programID identity.Identity
	logger    logging.Logger
}

var _ rpc.VaultKeeperServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, vs VaultOperations, ls LedgerOperations,
	v *auth.Verifier, programID identity.Identity) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		vaults:    vs,
		ledger:    ls,
		verifier:  v,
		programID: programID,
	}
}

// NewServer builds a grpc.Server with the interceptors and the service
// registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.signatureInterceptor))
	srv := grpc.NewServer(opts...)
	rpc.RegisterVaultKeeperServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
