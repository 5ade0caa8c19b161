package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "vaultkeeper.v1.VaultKeeper"

// Full method names, as seen by interceptors and signed into request proofs.
const (
	MethodInitialize      = "/" + ServiceName + "/Initialize"
	MethodUpdateAuthority = "/" + ServiceName + "/UpdateAuthority"
	MethodDeposit         = "/" + ServiceName + "/Deposit"
	MethodWithdraw        = "/" + ServiceName + "/Withdraw"
	MethodGetVault        = "/" + ServiceName + "/GetVault"
	MethodCreateMint      = "/" + ServiceName + "/CreateMint"
	MethodCreateAccount   = "/" + ServiceName + "/CreateAccount"
	MethodMintTo          = "/" + ServiceName + "/MintTo"
	MethodSetFrozen       = "/" + ServiceName + "/SetFrozen"
	MethodGetAccount      = "/" + ServiceName + "/GetAccount"
	MethodDerive          = "/" + ServiceName + "/Derive"
	MethodPing            = "/" + ServiceName + "/Ping"
)

// SignedMethods are the methods that change state and therefore need at
// least one request proof.
var SignedMethods = map[string]bool{
	MethodInitialize:      true,
	MethodUpdateAuthority: true,
	MethodDeposit:         true,
	MethodWithdraw:        true,
	MethodCreateMint:      true,
	MethodCreateAccount:   true,
	MethodMintTo:          true,
	MethodSetFrozen:       true,
}

type VaultKeeperServer interface {
	Initialize(context.Context, *InitializeRequest) (*Vault, error)
	UpdateAuthority(context.Context, *UpdateAuthorityRequest) (*Vault, error)
	Deposit(context.Context, *DepositRequest) (*DepositResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*WithdrawResponse, error)
	GetVault(context.Context, *GetVaultRequest) (*Vault, error)
	CreateMint(context.Context, *CreateMintRequest) (*Mint, error)
	CreateAccount(context.Context, *CreateAccountRequest) (*Account, error)
	MintTo(context.Context, *MintToRequest) (*Account, error)
	SetFrozen(context.Context, *SetFrozenRequest) (*Account, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
	Derive(context.Context, *DeriveRequest) (*DeriveResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(VaultKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultKeeperServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VaultKeeperServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Initialize", Handler: unaryHandler(MethodInitialize, VaultKeeperServer.Initialize)},
		{MethodName: "UpdateAuthority", Handler: unaryHandler(MethodUpdateAuthority, VaultKeeperServer.UpdateAuthority)},
		{MethodName: "Deposit", Handler: unaryHandler(MethodDeposit, VaultKeeperServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler(MethodWithdraw, VaultKeeperServer.Withdraw)},
		{MethodName: "GetVault", Handler: unaryHandler(MethodGetVault, VaultKeeperServer.GetVault)},
		{MethodName: "CreateMint", Handler: unaryHandler(MethodCreateMint, VaultKeeperServer.CreateMint)},
		{MethodName: "CreateAccount", Handler: unaryHandler(MethodCreateAccount, VaultKeeperServer.CreateAccount)},
		{MethodName: "MintTo", Handler: unaryHandler(MethodMintTo, VaultKeeperServer.MintTo)},
		{MethodName: "SetFrozen", Handler: unaryHandler(MethodSetFrozen, VaultKeeperServer.SetFrozen)},
		{MethodName: "GetAccount", Handler: unaryHandler(MethodGetAccount, VaultKeeperServer.GetAccount)},
		{MethodName: "Derive", Handler: unaryHandler(MethodDerive, VaultKeeperServer.Derive)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, VaultKeeperServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vaultkeeper/v1",
}

func RegisterVaultKeeperServer(s grpc.ServiceRegistrar, srv VaultKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
