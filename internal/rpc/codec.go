// Package rpc defines the VaultKeeper gRPC service: its messages, the JSON
// codec they travel in, the service descriptor and a typed client.
//
// On the wire every call uses content-type "application/grpc+json": each
// gRPC message frame carries one JSON object with the snake_case field
// names of the structs in messages.go. Identities are checksummed base32
// strings and amounts are unsigned JSON integers. Clients in other
// languages need no .proto files; they register a JSON codec and send
// request proofs in the "x-signature" metadata key, one value per signer.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the messages are sent with.
const CodecName = "json"

// ContentType is the full gRPC content-type of every VaultKeeper call.
const ContentType = "application/grpc+" + CodecName

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
