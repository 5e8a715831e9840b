package rpcapi

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the subtype registered with google.golang.org/grpc/encoding,
// selected by clients via grpc.CallContentSubtype; the server picks the
// registered codec from each request's content-subtype. We use gob
// instead of protobuf wire framing because the messages in this package are
// plain Go structs, not generated from the committed .proto file — protoc
// cannot run in this environment (see DESIGN.md).
const codecName = "gob"

func init() {
	encoding.RegisterCodec(gobCodec{})
}

// gobCodec implements google.golang.org/grpc/encoding.Codec over
// encoding/gob. grpc calls Marshal/Unmarshal with the request/response
// struct pointers declared in messages.go; gob's reflection-based encoding
// handles them directly, with no IDL step.
type gobCodec struct{}

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob marshal: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("gob unmarshal: %w", err)
	}
	return nil
}

func (gobCodec) Name() string {
	return codecName
}
