package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// VaultKeeperClient is a typed client for the VaultKeeper service. Every
// call is sent with the JSON codec.
type VaultKeeperClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultKeeperClient(cc grpc.ClientConnInterface) *VaultKeeperClient {
	return &VaultKeeperClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VaultKeeperClient) Initialize(ctx context.Context, in *InitializeRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodInitialize, in, opts)
}

func (c *VaultKeeperClient) UpdateAuthority(ctx context.Context, in *UpdateAuthorityRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodUpdateAuthority, in, opts)
}

func (c *VaultKeeperClient) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*DepositResponse, error) {
	return invoke[DepositResponse](ctx, c.cc, MethodDeposit, in, opts)
}

func (c *VaultKeeperClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error) {
	return invoke[WithdrawResponse](ctx, c.cc, MethodWithdraw, in, opts)
}

func (c *VaultKeeperClient) GetVault(ctx context.Context, in *GetVaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodGetVault, in, opts)
}

func (c *VaultKeeperClient) CreateMint(ctx context.Context, in *CreateMintRequest, opts ...grpc.CallOption) (*Mint, error) {
	return invoke[Mint](ctx, c.cc, MethodCreateMint, in, opts)
}

func (c *VaultKeeperClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodCreateAccount, in, opts)
}

func (c *VaultKeeperClient) MintTo(ctx context.Context, in *MintToRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodMintTo, in, opts)
}

func (c *VaultKeeperClient) SetFrozen(ctx context.Context, in *SetFrozenRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodSetFrozen, in, opts)
}

func (c *VaultKeeperClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *VaultKeeperClient) Derive(ctx context.Context, in *DeriveRequest, opts ...grpc.CallOption) (*DeriveResponse, error) {
	return invoke[DeriveResponse](ctx, c.cc, MethodDerive, in, opts)
}

func (c *VaultKeeperClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
