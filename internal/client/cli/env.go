package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/vaultkeeper/internal/client/client"
	"github.com/dmitrijs2005/vaultkeeper/internal/client/config"
	"github.com/dmitrijs2005/vaultkeeper/internal/client/keystore"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"golang.org/x/term"
)

// PassphraseEnv, when set, supplies the keystore passphrase without a
// prompt.
const PassphraseEnv = "VAULTCTL_PASSPHRASE"

// VaultAPI is the part of client.GRPCClient the commands use.
type VaultAPI interface {
	Close() error
	Initialize(ctx context.Context, req *rpc.InitializeRequest) (*rpc.Vault, error)
	UpdateAuthority(ctx context.Context, req *rpc.UpdateAuthorityRequest) (*rpc.Vault, error)
	Deposit(ctx context.Context, req *rpc.DepositRequest) (*rpc.DepositResponse, error)
	Withdraw(ctx context.Context, req *rpc.WithdrawRequest) (*rpc.WithdrawResponse, error)
	GetVault(ctx context.Context, record identity.Identity) (*rpc.Vault, error)
	CreateMint(ctx context.Context, req *rpc.CreateMintRequest) (*rpc.Mint, error)
	CreateAccount(ctx context.Context, req *rpc.CreateAccountRequest) (*rpc.Account, error)
	MintTo(ctx context.Context, req *rpc.MintToRequest) (*rpc.Account, error)
	SetFrozen(ctx context.Context, req *rpc.SetFrozenRequest) (*rpc.Account, error)
	GetAccount(ctx context.Context, address identity.Identity) (*rpc.Account, error)
	Derive(ctx context.Context, record identity.Identity) (*rpc.DeriveResponse, error)
	Ping(ctx context.Context) error
}

// Test seams.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	dialServer   = func(cfg *config.Config) (VaultAPI, error) {
		return client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.SignatureTTL, cfg.CallTimeout)
	}
)

// env lazily opens the keystore and the server connection, so commands
// that need neither never prompt or dial.
type env struct {
	cfg    *config.Config
	stdin  io.Reader
	stderr io.Writer

	ks  *keystore.Keystore
	api VaultAPI
}

func newEnv(cfg *config.Config, stdin io.Reader, stderr io.Writer) *env {
	return &env{cfg: cfg, stdin: stdin, stderr: stderr}
}

func (e *env) passphrase() ([]byte, error) {
	if v, ok := os.LookupEnv(PassphraseEnv); ok {
		return []byte(v), nil
	}

	f, ok := e.stdin.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no terminal to read the passphrase from; set %s", PassphraseEnv)
	}
	if _, err := fmt.Fprint(e.stderr, "Keystore passphrase: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(f.Fd()))
	fmt.Fprintln(e.stderr)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func (e *env) keystore(create bool) (*keystore.Keystore, error) {
	if e.ks != nil {
		return e.ks, nil
	}
	pw, err := e.passphrase()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "keystore", err)
	}
	ks, err := keystore.Open(e.cfg.KeystorePath, pw, create)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "keystore", err)
	}
	e.ks = ks
	return ks, nil
}

// signer returns the keypair stored under name.
func (e *env) signer(name string) (*identity.Keypair, error) {
	if name == "" {
		return nil, NewExitError(ExitCommandError, "a signing key name is required")
	}
	ks, err := e.keystore(false)
	if err != nil {
		return nil, err
	}
	kp, err := ks.Get(name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "signer", err)
	}
	return kp, nil
}

// resolve accepts an address or a key name. Addresses never touch the
// keystore.
func (e *env) resolve(ref string) (identity.Identity, error) {
	if ref == "" {
		return identity.Zero, NewExitError(ExitCommandError, "missing identity")
	}
	if id, err := identity.Parse(ref); err == nil {
		return id, nil
	}
	ks, err := e.keystore(false)
	if err != nil {
		return identity.Zero, err
	}
	id, err := ks.Resolve(ref)
	if err != nil {
		return identity.Zero, WrapExitError(ExitCommandError, "resolve", err)
	}
	return id, nil
}

func (e *env) client() (VaultAPI, error) {
	if e.api != nil {
		return e.api, nil
	}
	api, err := dialServer(e.cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "connect", err)
	}
	e.api = api
	return api, nil
}

func (e *env) close() error {
	if e.api == nil {
		return nil
	}
	err := e.api.Close()
	e.api = nil
	return err
}
