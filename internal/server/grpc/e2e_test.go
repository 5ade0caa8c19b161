package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/ledger"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/receipts"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startServer serves the real services over an in-memory listener.
func startServer(t *testing.T) *rpc.VaultKeeperClient {
	t.Helper()

	db, m := repotest.NewSQLite(t)
	programID := identity.Generate().Public
	l := ledger.New(m, programID)
	vs := services.NewVaultService(db, m, l, programID, receipts.NopArchive{}, nopLogger())
	ls := services.NewLedgerService(db, m, l, receipts.NopArchive{}, nopLogger())

	s := NewGRPCServer("bufnet", nopLogger(), vs, ls, auth.NewVerifier(time.Minute), programID)
	srv := s.NewServer()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return rpc.NewVaultKeeperClient(conn)
}

// signed attaches a proof from every keypair over req on method.
func signed(t *testing.T, method string, req any, kps ...*identity.Keypair) context.Context {
	t.Helper()
	var kv []string
	for _, kp := range kps {
		kv = append(kv, common.SignatureHeaderName, mustSign(t, kp, method, req))
	}
	return metadata.AppendToOutgoingContext(context.Background(), kv...)
}

func TestEndToEnd_VaultLifecycle(t *testing.T) {
	c := startServer(t)

	mint, mintAuth := identity.Generate(), identity.Generate()
	alice, bob := identity.Generate(), identity.Generate()
	record := identity.Generate()

	cm := &rpc.CreateMintRequest{Address: mint.Public, Authority: mintAuth.Public, Decimals: 2}
	_, err := c.CreateMint(signed(t, rpc.MethodCreateMint, cm, mint), cm)
	require.NoError(t, err)

	// alice's funded source account and bob's destination
	src, dst := identity.Generate(), identity.Generate()
	for _, a := range []struct {
		kp    *identity.Keypair
		owner identity.Identity
	}{{src, alice.Public}, {dst, bob.Public}} {
		ca := &rpc.CreateAccountRequest{Address: a.kp.Public, Mint: mint.Public, Owner: a.owner}
		_, err = c.CreateAccount(signed(t, rpc.MethodCreateAccount, ca, a.kp), ca)
		require.NoError(t, err)
	}
	mt := &rpc.MintToRequest{Mint: mint.Public, Account: src.Public, Amount: 1000}
	_, err = c.MintTo(signed(t, rpc.MethodMintTo, mt, mintAuth), mt)
	require.NoError(t, err)

	// initialize with alice as payer and authority
	in := &rpc.InitializeRequest{Record: record.Public, Authority: alice.Public, Mint: mint.Public, Payer: alice.Public}
	v, err := c.Initialize(signed(t, rpc.MethodInitialize, in, alice, record), in)
	require.NoError(t, err)

	d, err := c.Derive(context.Background(), &rpc.DeriveRequest{Record: record.Public})
	require.NoError(t, err)
	assert.Equal(t, d.Vault, v.Vault)
	assert.Equal(t, d.VaultBump, v.VaultBump)
	assert.Equal(t, d.SignerBump, v.SignerBump)

	dep := &rpc.DepositRequest{Record: record.Public, Vault: v.Vault, Source: src.Public, Amount: 400}
	dr, err := c.Deposit(signed(t, rpc.MethodDeposit, dep, alice), dep)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), dr.Vault.Amount)
	assert.Equal(t, d.Signer, dr.Vault.Owner)

	// bob cannot withdraw
	wd := &rpc.WithdrawRequest{Record: record.Public, Vault: v.Vault, Destination: dst.Public}
	_, err = c.Withdraw(signed(t, rpc.MethodWithdraw, wd, bob), wd)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	// hand the vault to bob
	ua := &rpc.UpdateAuthorityRequest{Record: record.Public, NewAuthority: bob.Public}
	got, err := c.UpdateAuthority(signed(t, rpc.MethodUpdateAuthority, ua, alice), ua)
	require.NoError(t, err)
	assert.Equal(t, bob.Public, got.Authority)
	assert.Equal(t, uint64(400), got.Balance)

	ctx := signed(t, rpc.MethodWithdraw, wd, bob)
	wr, err := c.Withdraw(ctx, wd)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), wr.Amount)
	assert.Equal(t, uint64(400), wr.Vault.Withdrawn)

	// the same proof cannot be replayed
	_, err = c.Withdraw(ctx, wd)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	acc, err := c.GetAccount(context.Background(), &rpc.GetAccountRequest{Address: dst.Public})
	require.NoError(t, err)
	assert.Equal(t, uint64(400), acc.Amount)

	view, err := c.GetVault(context.Background(), &rpc.GetVaultRequest{Record: record.Public})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), view.Balance)
}

func TestEndToEnd_UnsignedMutationRejected(t *testing.T) {
	c := startServer(t)

	req := &rpc.CreateMintRequest{Address: identity.Generate().Public, Authority: identity.Generate().Public}
	_, err := c.CreateMint(context.Background(), req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestEndToEnd_Ping(t *testing.T) {
	c := startServer(t)

	resp, err := c.Ping(context.Background(), &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}
