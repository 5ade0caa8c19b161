package rpc

import "github.com/dmitrijs2005/vaultkeeper/internal/identity"

type Vault struct {
	Address    identity.Identity `json:"address"`
	Authority  identity.Identity `json:"authority"`
	Vault      identity.Identity `json:"vault"`
	Mint       identity.Identity `json:"mint"`
	Withdrawn  uint64            `json:"withdrawn"`
	SignerBump uint8             `json:"signer_bump"`
	VaultBump  uint8             `json:"vault_bump"`
	Balance    uint64            `json:"balance"`
}

type Mint struct {
	Address   identity.Identity `json:"address"`
	Authority identity.Identity `json:"authority"`
	Decimals  uint8             `json:"decimals"`
	Supply    uint64            `json:"supply"`
}

type Account struct {
	Address identity.Identity `json:"address"`
	Mint    identity.Identity `json:"mint"`
	Owner   identity.Identity `json:"owner"`
	Amount  uint64            `json:"amount"`
	Frozen  bool              `json:"frozen"`
}

// Initialize must be signed by Payer and by Record.
type InitializeRequest struct {
	Record    identity.Identity `json:"record"`
	Authority identity.Identity `json:"authority"`
	Mint      identity.Identity `json:"mint"`
	Payer     identity.Identity `json:"payer"`
}

// UpdateAuthority must be signed by the current authority.
type UpdateAuthorityRequest struct {
	Record       identity.Identity `json:"record"`
	NewAuthority identity.Identity `json:"new_authority"`
}

// Deposit must be signed by the owner of Source.
type DepositRequest struct {
	Record identity.Identity `json:"record"`
	Vault  identity.Identity `json:"vault"`
	Source identity.Identity `json:"source"`
	Amount uint64            `json:"amount"`
}

type DepositResponse struct {
	Vault Account `json:"vault"`
}

// Withdraw must be signed by the authority. It always drains the vault.
type WithdrawRequest struct {
	Record      identity.Identity `json:"record"`
	Vault       identity.Identity `json:"vault"`
	Destination identity.Identity `json:"destination"`
}

type WithdrawResponse struct {
	Vault  Vault  `json:"vault"`
	Amount uint64 `json:"amount"`
}

type GetVaultRequest struct {
	Record identity.Identity `json:"record"`
}

// CreateMint must be signed by Address.
type CreateMintRequest struct {
	Address   identity.Identity `json:"address"`
	Authority identity.Identity `json:"authority"`
	Decimals  uint8             `json:"decimals"`
}

// CreateAccount must be signed by Address.
type CreateAccountRequest struct {
	Address identity.Identity `json:"address"`
	Mint    identity.Identity `json:"mint"`
	Owner   identity.Identity `json:"owner"`
}

// MintTo must be signed by the mint authority.
type MintToRequest struct {
	Mint    identity.Identity `json:"mint"`
	Account identity.Identity `json:"account"`
	Amount  uint64            `json:"amount"`
}

// SetFrozen must be signed by the authority of the account's mint.
type SetFrozenRequest struct {
	Account identity.Identity `json:"account"`
	Frozen  bool              `json:"frozen"`
}

type GetAccountRequest struct {
	Address identity.Identity `json:"address"`
}

// DeriveRequest asks for the addresses a record at Record would get.
type DeriveRequest struct {
	Record identity.Identity `json:"record"`
}

type DeriveResponse struct {
	ProgramID  identity.Identity `json:"program_id"`
	Signer     identity.Identity `json:"signer"`
	SignerBump uint8             `json:"signer_bump"`
	Vault      identity.Identity `json:"vault"`
	VaultBump  uint8             `json:"vault_bump"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
