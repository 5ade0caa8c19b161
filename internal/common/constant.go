package common

// SignatureHeaderName is the gRPC metadata key carrying request proofs.
// A request signed by several parties carries one value per signer.
const SignatureHeaderName = "x-signature"
