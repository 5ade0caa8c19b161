package models

import "github.com/dmitrijs2005/vaultkeeper/internal/identity"

// Mint describes a fungible token.
type Mint struct {
	Address   identity.Identity
	Authority identity.Identity
	Decimals  uint8
	Supply    uint64
}

// TokenAccount holds a balance of one mint. Owner is the party that must
// authorize transfers out of the account; for a vault holding account it
// is the record's derived signer identity.
type TokenAccount struct {
	Address identity.Identity
	Mint    identity.Identity
	Owner   identity.Identity
	Amount  uint64
	Frozen  bool
}

// UsedSignature remembers an accepted request proof until it expires.
type UsedSignature struct {
	ID        string
	Signer    identity.Identity
	ExpiresAt int64
}
