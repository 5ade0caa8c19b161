// Package identity defines the 32-byte public identity used for vault
// authorities, token accounts, mints and program-derived addresses.
//
// Identities are ed25519 public keys (or keyless derived addresses of the
// same width). Their text form is the checksummed base32 address encoding
// from the Algorand SDK, so a mistyped identity is rejected instead of
// silently naming another account.
package identity

import (
	"crypto/ed25519"
	"database/sql/driver"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

// Size is the length of an identity in bytes.
const Size = ed25519.PublicKeySize

// Identity is a public key or a program-derived address.
type Identity [Size]byte

// Zero is the empty identity.
var Zero Identity

// Parse decodes the text form produced by String.
func Parse(s string) (Identity, error) {
	a, err := types.DecodeAddress(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q: %v", common.ErrInvalidIdentity, s, err)
	}
	return Identity(a), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromBytes copies a raw 32-byte value into an Identity.
func FromBytes(b []byte) (Identity, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: want %d bytes, got %d", common.ErrInvalidIdentity, Size, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

func (id Identity) String() string {
	return types.Address(id).String()
}

// Bytes returns a copy of the raw identity bytes.
func (id Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

func (id Identity) IsZero() bool {
	return id == Zero
}

// PublicKey returns the identity as an ed25519 verification key. For derived
// addresses the key is not a valid curve point and no signature verifies.
func (id Identity) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(id.Bytes())
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value stores the identity in its text form.
func (id Identity) Value() (driver.Value, error) {
	return id.String(), nil
}

// Scan reads an identity stored by Value.
func (id *Identity) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: NULL", common.ErrInvalidIdentity)
	default:
		return fmt.Errorf("%w: unsupported column type %T", common.ErrInvalidIdentity, src)
	}
}

// Keypair is a signing identity held by a client.
type Keypair struct {
	Public  Identity
	Private ed25519.PrivateKey
}

// Generate creates a fresh random keypair.
func Generate() *Keypair {
	acct := crypto.GenerateAccount()
	return &Keypair{Public: Identity(acct.Address), Private: ed25519.PrivateKey(acct.PrivateKey)}
}

// FromSeed rebuilds a keypair from its 32-byte ed25519 seed.
func FromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed length %d", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub, err := FromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{Public: pub, Private: priv}, nil
}

// Seed returns the 32-byte seed the keypair was built from.
func (k *Keypair) Seed() []byte {
	return k.Private.Seed()
}

func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.Private, msg)
}

// Verify reports whether sig is a valid signature of msg by id.
func Verify(id Identity, msg, sig []byte) bool {
	return ed25519.Verify(id.PublicKey(), msg, sig)
}
