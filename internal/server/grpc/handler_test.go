package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/derive"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeVaults struct {
	VaultOperations

	gotInit    services.InitializeRequest
	gotSigners auth.Signers
	rec        *models.VaultRecord
	balance    uint64
	withdrawn  uint64
	err        error
}

func (f *fakeVaults) Initialize(_ context.Context, req services.InitializeRequest, s auth.Signers) (*models.VaultRecord, error) {
	f.gotInit, f.gotSigners = req, s
	return f.rec, f.err
}

func (f *fakeVaults) Withdraw(_ context.Context, req services.WithdrawRequest, s auth.Signers) (*services.WithdrawResult, error) {
	f.gotSigners = s
	if f.err != nil {
		return nil, f.err
	}
	return &services.WithdrawResult{Record: f.rec, Amount: f.withdrawn}, nil
}

func (f *fakeVaults) GetVault(_ context.Context, record identity.Identity) (*services.VaultView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.VaultView{Record: f.rec, Balance: f.balance}, nil
}

type fakeLedger struct {
	LedgerOperations
	acc *models.TokenAccount
	err error
}

func (f *fakeLedger) GetAccount(context.Context, identity.Identity) (*models.TokenAccount, error) {
	return f.acc, f.err
}

func testRecord() *models.VaultRecord {
	return &models.VaultRecord{
		Address:    identity.Generate().Public,
		Authority:  identity.Generate().Public,
		Vault:      identity.Generate().Public,
		Mint:       identity.Generate().Public,
		Withdrawn:  7,
		SignerBump: 254,
		VaultBump:  253,
	}
}

func TestInitialize_PassesSignersAndMapsRecord(t *testing.T) {
	rec := testRecord()
	fv := &fakeVaults{rec: rec}
	s := newTestServer(fv, nil)

	signers := auth.Signers{{Signer: rec.Address, ID: "1"}}
	req := &rpc.InitializeRequest{Record: rec.Address, Authority: rec.Authority, Mint: rec.Mint, Payer: rec.Address}

	resp, err := s.Initialize(auth.WithSigners(context.Background(), signers), req)
	require.NoError(t, err)
	assert.Equal(t, signers, fv.gotSigners)
	assert.Equal(t, rec.Address, fv.gotInit.Record)
	assert.Equal(t, rec.Vault, resp.Vault)
	assert.Equal(t, uint8(254), resp.SignerBump)
	assert.Equal(t, uint64(0), resp.Balance)
}

func TestWithdraw_ReportsAmount(t *testing.T) {
	rec := testRecord()
	s := newTestServer(&fakeVaults{rec: rec, withdrawn: 500}, nil)

	resp, err := s.Withdraw(context.Background(), &rpc.WithdrawRequest{Record: rec.Address, Vault: rec.Vault})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), resp.Amount)
	assert.Equal(t, uint64(7), resp.Vault.Withdrawn)
}

func TestGetVault_IncludesBalance(t *testing.T) {
	rec := testRecord()
	s := newTestServer(&fakeVaults{rec: rec, balance: 42}, nil)

	resp, err := s.GetVault(context.Background(), &rpc.GetVaultRequest{Record: rec.Address})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), resp.Balance)
	assert.Equal(t, rec.Authority, resp.Authority)
}

func TestGetAccount_NotFound(t *testing.T) {
	s := newTestServer(nil, &fakeLedger{err: fmt.Errorf("account: %w", common.ErrorNotFound)})

	_, err := s.GetAccount(context.Background(), &rpc.GetAccountRequest{Address: identity.Generate().Public})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDerive_MatchesDerivation(t *testing.T) {
	s := newTestServer(nil, nil)
	record := identity.Generate().Public

	resp, err := s.Derive(context.Background(), &rpc.DeriveRequest{Record: record})
	require.NoError(t, err)

	vault, bump, err := derive.Derive(s.programID, derive.VaultTag, record)
	require.NoError(t, err)
	assert.Equal(t, vault, resp.Vault)
	assert.Equal(t, bump, resp.VaultBump)
	assert.Equal(t, s.programID, resp.ProgramID)
	assert.NotEqual(t, resp.Signer, resp.Vault)
}

func TestPing(t *testing.T) {
	s := newTestServer(nil, nil)
	resp, err := s.Ping(context.Background(), &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestToStatus(t *testing.T) {
	transfer := func(reason error) error {
		return fmt.Errorf("%w: %w", common.ErrTransferFailed, reason)
	}

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"unauthorized", common.ErrorUnauthorized, codes.PermissionDenied},
		{"transfer unauthorized", transfer(common.ErrorUnauthorized), codes.PermissionDenied},
		{"invalid token", common.ErrInvalidToken, codes.Unauthenticated},
		{"replay", fmt.Errorf("proof x: %w", common.ErrReplay), codes.Unauthenticated},
		{"amount", common.ErrInvalidAmount, codes.InvalidArgument},
		{"binding", common.ErrBindingMismatch, codes.InvalidArgument},
		{"identity", common.ErrInvalidIdentity, codes.InvalidArgument},
		{"mint mismatch", transfer(common.ErrMintMismatch), codes.InvalidArgument},
		{"exists", common.ErrAlreadyExists, codes.AlreadyExists},
		{"not found", transfer(common.ErrorNotFound), codes.NotFound},
		{"funds", transfer(common.ErrInsufficientFunds), codes.FailedPrecondition},
		{"frozen", transfer(common.ErrAccountFrozen), codes.FailedPrecondition},
		{"other", errors.New("disk on fire"), codes.Internal},
	}

	s := newTestServer(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(s.toStatus(tt.err)))
		})
	}
}

func TestToStatus_HidesInternalDetail(t *testing.T) {
	s := newTestServer(nil, nil)
	st, _ := status.FromError(s.toStatus(errors.New("password=hunter2")))
	assert.NotContains(t, st.Message(), "hunter2")
}
