package core

import (
	"bufio"
	"bytes"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

// Message is any value that can be encoded to, and decoded from,
// length-delimited protobuf bytes. The port/transport layer is payload
// agnostic: it only ever moves the opaque frames EncodeMessage produces.
type Message = proto.Message

// EncodeMessage serializes m using the length-delimited framing
// (varint(len) || bytes(len)) for the protobuf wire format, via
// google.golang.org/protobuf/encoding/protodelim.
func EncodeMessage(m Message) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := protodelim.MarshalTo(&buf, m); err != nil {
		return nil, &EncodeError{Type: messageTypeName(m), Err: err}
	}
	return buf.Bytes(), nil
}

// DecodeMessage parses frame as the length-delimited protobuf encoding of
// a T, using newT to allocate the destination value (generics over an
// interface type can't construct a zero T directly, so callers — in
// practice, InputPort[T] — supply a constructor once at port creation).
func DecodeMessage[T Message](newT func() T, frame []byte) (T, error) {
	m := newT()
	r := bufio.NewReader(bytes.NewReader(frame))
	if err := protodelim.UnmarshalFrom(r, m); err != nil {
		var zero T
		return zero, &DecodeError{Type: messageTypeName(m), Err: err}
	}
	return m, nil
}

func messageTypeName(m Message) string {
	if m == nil || m.ProtoReflect() == nil {
		return "<nil>"
	}
	return string(m.ProtoReflect().Descriptor().FullName())
}
