// Package api holds the wire contract of the gRPC services: request and
// response messages, service descriptors and typed clients.
//
// Messages are plain structs carried by a JSON codec registered under the
// "json" content subtype, so no generated protobuf code is involved.
package api

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallJSON selects the codec on the client side.
func CallJSON() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
