// Package client talks to the VaultKeeper server.
//
// GRPCClient wraps the generated-style rpc client and signs every mutating
// call: keypairs put on the context with WithSigners are turned into
// request proofs by a unary interceptor and sent in the x-signature
// metadata, one value per keypair. gRPC status codes are mapped back onto
// the sentinel errors in internal/common, plus ErrUnavailable for
// transport failures.
package client
