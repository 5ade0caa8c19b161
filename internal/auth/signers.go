package auth

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
)

// Signers is the set of verified proofs attached to one request.
type Signers []Proof

// Has reports whether id signed the request.
func (s Signers) Has(id identity.Identity) bool {
	return slices.ContainsFunc(s, func(p Proof) bool { return p.Signer == id })
}

func (s Signers) Identities() []identity.Identity {
	ids := make([]identity.Identity, 0, len(s))
	for _, p := range s {
		ids = append(ids, p.Signer)
	}
	return ids
}

type signersKey struct{}

func WithSigners(ctx context.Context, s Signers) context.Context {
	return context.WithValue(ctx, signersKey{}, s)
}

// SignersFromContext returns the proofs verified for the current request,
// or nil when there were none.
func SignersFromContext(ctx context.Context) Signers {
	s, _ := ctx.Value(signersKey{}).(Signers)
	return s
}
