// Package models defines server-side data models persisted in the database.
package models

import (
	"math"

	"github.com/dmitrijs2005/vaultkeeper/internal/derive"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
)

// VaultRecord is the per-owner record gating deposits into and withdrawals
// out of the vault holding account.
type VaultRecord struct {
	// Address is the record's own identity; it is the origin of both
	// derived addresses.
	Address identity.Identity
	// Authority may reassign ownership and withdraw.
	Authority identity.Identity
	// Vault is the holding token account. Immutable after creation.
	Vault identity.Identity
	// Mint is the token the holding account was opened for.
	Mint identity.Identity
	// Withdrawn is the cumulative amount ever withdrawn (saturating).
	Withdrawn uint64
	// SignerBump re-derives the keyless signer identity.
	SignerBump uint8
	// VaultBump re-derives the holding account address.
	VaultBump uint8
}

// SignerProof returns the derivation that authorizes transfers out of the
// holding account.
func (r *VaultRecord) SignerProof() derive.Proof {
	return derive.Proof{Tag: derive.SignerTag, Origin: r.Address, Bump: r.SignerBump}
}

// VaultProof returns the derivation that binds the holding account address
// to this record.
func (r *VaultRecord) VaultProof() derive.Proof {
	return derive.Proof{Tag: derive.VaultTag, Origin: r.Address, Bump: r.VaultBump}
}

// RecordWithdrawal adds amount to the counter, saturating at MaxUint64.
func (r *VaultRecord) RecordWithdrawal(amount uint64) {
	r.Withdrawn = SaturatingAdd(r.Withdrawn, amount)
}

func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
