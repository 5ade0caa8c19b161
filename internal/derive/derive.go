// Package derive computes keyless program-derived addresses.
//
// A derived address is SHA-256(seeds... || bump || programID || marker),
// accepted only when the digest does not decode as an edwards25519 point.
// Off-curve addresses have no private key, so the only way to act for one
// is to present the seeds and bump and let the verifier recompute it.
package derive

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
)

// Domain-separation tags for the two addresses bound to a vault record.
const (
	SignerTag = "signer"
	VaultTag  = "vault"
)

const (
	// MaxSeedLen bounds each seed, which keeps seed concatenation unambiguous
	// for the fixed-size inputs used here.
	MaxSeedLen = 32
	MaxSeeds   = 16

	marker = "ProgramDerivedAddress"
)

var (
	// ErrOnCurve is returned when a seed/bump combination yields a valid
	// ed25519 public key, i.e. an address someone could hold a key for.
	ErrOnCurve = errors.New("derived address is on the ed25519 curve")

	// ErrNoViableBump is returned when every bump value lands on the curve.
	ErrNoViableBump = errors.New("no viable bump for seeds")

	ErrInvalidSeeds  = errors.New("invalid seeds")
	ErrProofMismatch = errors.New("derived address does not match")
)

// CreateAddress computes the derived address for one explicit bump.
func CreateAddress(programID identity.Identity, bump uint8, seeds ...[]byte) (identity.Identity, error) {
	if err := checkSeeds(seeds); err != nil {
		return identity.Zero, err
	}

	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(programID[:])
	h.Write([]byte(marker))

	var addr identity.Identity
	copy(addr[:], h.Sum(nil))

	if isOnTheCurve(addr[:]) {
		return identity.Zero, ErrOnCurve
	}
	return addr, nil
}

// FindAddress searches bumps from 255 down and returns the first off-curve
// address together with its bump. The result is deterministic, so the bump
// found here is the canonical one for the seeds.
func FindAddress(programID identity.Identity, seeds ...[]byte) (identity.Identity, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateAddress(programID, uint8(bump), seeds...)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return identity.Zero, 0, err
		}
	}
	return identity.Zero, 0, ErrNoViableBump
}

// Derive finds the canonical address for (tag, origin).
func Derive(programID identity.Identity, tag string, origin identity.Identity) (identity.Identity, uint8, error) {
	return FindAddress(programID, []byte(tag), origin[:])
}

// Proof is the material that authorizes a keyless identity: whoever can
// recompute the address from it acts for that address.
type Proof struct {
	Tag    string
	Origin identity.Identity
	Bump   uint8
}

// Address recomputes the identity the proof stands for.
func (p Proof) Address(programID identity.Identity) (identity.Identity, error) {
	return CreateAddress(programID, p.Bump, []byte(p.Tag), p.Origin[:])
}

// Verify checks that the proof recomputes to want.
func (p Proof) Verify(programID, want identity.Identity) error {
	got, err := p.Address(programID)
	if err != nil {
		return fmt.Errorf("%w: %s/%s bump %d: %v", ErrProofMismatch, p.Tag, p.Origin, p.Bump, err)
	}
	if got != want {
		return fmt.Errorf("%w: %s/%s bump %d yields %s, want %s", ErrProofMismatch, p.Tag, p.Origin, p.Bump, got, want)
	}
	return nil
}

// IsOnCurve reports whether id could be an ed25519 public key.
func IsOnCurve(id identity.Identity) bool {
	return isOnTheCurve(id[:])
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d seeds, max %d", ErrInvalidSeeds, len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLen {
			return fmt.Errorf("%w: seed %d is %d bytes, max %d", ErrInvalidSeeds, i, len(s), MaxSeedLen)
		}
	}
	return nil
}

// isOnTheCurve returns true if the 32-byte value decodes to a valid
// edwards25519 point.
func isOnTheCurve(address []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(address)
	return err == nil
}
