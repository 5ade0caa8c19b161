package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// vaultKeeperAPI is satisfied by *rpc.VaultKeeperClient.
type vaultKeeperAPI interface {
	Initialize(ctx context.Context, in *rpc.InitializeRequest, opts ...grpc.CallOption) (*rpc.Vault, error)
	UpdateAuthority(ctx context.Context, in *rpc.UpdateAuthorityRequest, opts ...grpc.CallOption) (*rpc.Vault, error)
	Deposit(ctx context.Context, in *rpc.DepositRequest, opts ...grpc.CallOption) (*rpc.DepositResponse, error)
	Withdraw(ctx context.Context, in *rpc.WithdrawRequest, opts ...grpc.CallOption) (*rpc.WithdrawResponse, error)
	GetVault(ctx context.Context, in *rpc.GetVaultRequest, opts ...grpc.CallOption) (*rpc.Vault, error)
	CreateMint(ctx context.Context, in *rpc.CreateMintRequest, opts ...grpc.CallOption) (*rpc.Mint, error)
	CreateAccount(ctx context.Context, in *rpc.CreateAccountRequest, opts ...grpc.CallOption) (*rpc.Account, error)
	MintTo(ctx context.Context, in *rpc.MintToRequest, opts ...grpc.CallOption) (*rpc.Account, error)
	SetFrozen(ctx context.Context, in *rpc.SetFrozenRequest, opts ...grpc.CallOption) (*rpc.Account, error)
	GetAccount(ctx context.Context, in *rpc.GetAccountRequest, opts ...grpc.CallOption) (*rpc.Account, error)
	Derive(ctx context.Context, in *rpc.DeriveRequest, opts ...grpc.CallOption) (*rpc.DeriveResponse, error)
	Ping(ctx context.Context, in *rpc.PingRequest, opts ...grpc.CallOption) (*rpc.PingResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      vaultKeeperAPI
	ttl         time.Duration
	timeout     time.Duration
}

type signersKey struct{}

// WithSigners makes the next call carry one request proof per keypair.
func WithSigners(ctx context.Context, kps ...*identity.Keypair) context.Context {
	return context.WithValue(ctx, signersKey{}, kps)
}

// SignersFromContext returns the keypairs set by WithSigners.
func SignersFromContext(ctx context.Context) []*identity.Keypair {
	kps, _ := ctx.Value(signersKey{}).([]*identity.Keypair)
	return kps
}

// signatureInterceptor signs req for method with every keypair on the
// context. Proofs replace any x-signature values already present.
func (s *GRPCClient) signatureInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	kps := SignersFromContext(ctx)
	if len(kps) > 0 {
		md, _ := metadata.FromOutgoingContext(ctx)
		md = md.Copy()
		if md == nil {
			md = metadata.MD{}
		}
		md.Delete(common.SignatureHeaderName)
		for _, kp := range kps {
			token, err := auth.Sign(kp, method, req, s.ttl)
			if err != nil {
				return fmt.Errorf("sign %s: %w", method, err)
			}
			md.Append(common.SignatureHeaderName, token)
		}
		ctx = metadata.NewOutgoingContext(ctx, md)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. Proofs are issued with lifetime
// ttl and every call gets a timeout deadline.
func NewGRPCClient(endpointURL string, ttl, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, ttl: ttl, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.signatureInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewVaultKeeperClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// call runs fn with the call deadline and maps its error.
func call[Resp any](ctx context.Context, s *GRPCClient, fn func(context.Context) (*Resp, error)) (*Resp, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := fn(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Initialize(ctx context.Context, req *rpc.InitializeRequest) (*rpc.Vault, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Vault, error) { return s.client.Initialize(ctx, req) })
}

func (s *GRPCClient) UpdateAuthority(ctx context.Context, req *rpc.UpdateAuthorityRequest) (*rpc.Vault, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Vault, error) { return s.client.UpdateAuthority(ctx, req) })
}

func (s *GRPCClient) Deposit(ctx context.Context, req *rpc.DepositRequest) (*rpc.DepositResponse, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.DepositResponse, error) { return s.client.Deposit(ctx, req) })
}

func (s *GRPCClient) Withdraw(ctx context.Context, req *rpc.WithdrawRequest) (*rpc.WithdrawResponse, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.WithdrawResponse, error) { return s.client.Withdraw(ctx, req) })
}

func (s *GRPCClient) GetVault(ctx context.Context, record identity.Identity) (*rpc.Vault, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Vault, error) {
		return s.client.GetVault(ctx, &rpc.GetVaultRequest{Record: record})
	})
}

func (s *GRPCClient) CreateMint(ctx context.Context, req *rpc.CreateMintRequest) (*rpc.Mint, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Mint, error) { return s.client.CreateMint(ctx, req) })
}

func (s *GRPCClient) CreateAccount(ctx context.Context, req *rpc.CreateAccountRequest) (*rpc.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Account, error) { return s.client.CreateAccount(ctx, req) })
}

func (s *GRPCClient) MintTo(ctx context.Context, req *rpc.MintToRequest) (*rpc.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Account, error) { return s.client.MintTo(ctx, req) })
}

func (s *GRPCClient) SetFrozen(ctx context.Context, req *rpc.SetFrozenRequest) (*rpc.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Account, error) { return s.client.SetFrozen(ctx, req) })
}

func (s *GRPCClient) GetAccount(ctx context.Context, address identity.Identity) (*rpc.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.Account, error) {
		return s.client.GetAccount(ctx, &rpc.GetAccountRequest{Address: address})
	})
}

func (s *GRPCClient) Derive(ctx context.Context, record identity.Identity) (*rpc.DeriveResponse, error) {
	return call(ctx, s, func(ctx context.Context) (*rpc.DeriveResponse, error) {
		return s.client.Derive(ctx, &rpc.DeriveRequest{Record: record})
	})
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := call(ctx, s, func(ctx context.Context) (*rpc.PingResponse, error) {
		return s.client.Ping(ctx, &rpc.PingRequest{})
	})
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// mapError turns a gRPC status back into a sentinel the CLI can match,
// keeping the server's message.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		sentinel = ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		sentinel = ErrUnavailable
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.AlreadyExists:
		sentinel = common.ErrAlreadyExists
	case codes.InvalidArgument:
		sentinel = common.ErrInvalidArgument
	case codes.FailedPrecondition:
		sentinel = common.ErrTransferFailed
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
