// Package cli implements vaultctl, the command-line client for VaultKeeper.
//
// Commands that change state sign their request with keys from the local
// keystore. Identities may be given either as a key name or as an
// address; only signing keys have to be in the keystore.
package cli
