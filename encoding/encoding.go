// Package encoding implements the stdio-boundary message framings: text
// (newline-delimited UTF-8), protobuf (length-delimited varint framing),
// and JSON (newline-delimited JSON), built on google.golang.org/protobuf's
// own encoding subpackages rather than a hand-rolled marshaler.
package encoding

import (
	"bytes"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
)

// Encoding is a message-framing format for stdio boundaries.
type Encoding int

const (
	// Text is line-oriented UTF-8, valid only for string-typed payloads.
	Text Encoding = iota
	// Protobuf is varint(len) || bytes(len) length-delimited framing.
	Protobuf
	// JSON is newline-delimited JSON, one object per line.
	JSON
)

func (e Encoding) String() string {
	switch e {
	case Text:
		return "text"
	case Protobuf:
		return "protobuf"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// Parse resolves the CLI's `-e text|protobuf|json` flag value.
func Parse(s string) (Encoding, error) {
	switch s {
	case "text":
		return Text, nil
	case "protobuf":
		return Protobuf, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("protoflow: unrecognized encoding %q", s)
	}
}

// Extract pulls the first complete message of type T off the front of
// buf, under enc. ok is false when buf does not yet hold a complete
// message — the caller should append more bytes and retry; buf itself is
// returned unconsumed in that case.
func Extract[T core.Message](newT func() T, buf []byte, enc Encoding) (msg T, rest []byte, ok bool, err error) {
	switch enc {
	case Protobuf:
		return extractProtobuf(newT, buf)
	case JSON:
		return extractLine(newT, buf, func(line []byte, m T) error {
			return protojson.Unmarshal(line, m)
		})
	case Text:
		return extractLine(newT, buf, func(line []byte, m T) error {
			sv, ok := any(m).(*wrapperspb.StringValue)
			if !ok {
				return fmt.Errorf("text encoding only supports string-typed messages, not %T", m)
			}
			sv.Value = string(line)
			return nil
		})
	default:
		var zero T
		return zero, buf, false, fmt.Errorf("protoflow: unrecognized encoding %v", enc)
	}
}

func extractLine[T core.Message](newT func() T, buf []byte, assign func([]byte, T) error) (T, []byte, bool, error) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		var zero T
		return zero, buf, false, nil
	}
	m := newT()
	if err := assign(buf[:idx], m); err != nil {
		var zero T
		return zero, buf, false, &core.DecodeError{Type: fmt.Sprintf("%T", m), Err: err}
	}
	return m, buf[idx+1:], true, nil
}

func extractProtobuf[T core.Message](newT func() T, buf []byte) (T, []byte, bool, error) {
	var zero T
	length, n := protowire.ConsumeVarint(buf)
	if n <= 0 {
		return zero, buf, false, nil
	}
	total := n + int(length)
	if len(buf) < total {
		return zero, buf, false, nil
	}
	m := newT()
	if err := proto.Unmarshal(buf[n:total], m); err != nil {
		return zero, buf, false, &core.DecodeError{Type: fmt.Sprintf("%T", m), Err: err}
	}
	return m, buf[total:], true, nil
}

// Frame serializes msg under enc as it should appear on the wire,
// including whatever delimiter that encoding needs (a length prefix for
// Protobuf, a trailing newline for Text and JSON).
func Frame(msg core.Message, enc Encoding) ([]byte, error) {
	switch enc {
	case Protobuf:
		var buf bytes.Buffer
		if _, err := protodelim.MarshalTo(&buf, msg); err != nil {
			return nil, &core.EncodeError{Type: fmt.Sprintf("%T", msg), Err: err}
		}
		return buf.Bytes(), nil
	case JSON:
		b, err := protojson.Marshal(msg)
		if err != nil {
			return nil, &core.EncodeError{Type: fmt.Sprintf("%T", msg), Err: err}
		}
		return append(b, '\n'), nil
	case Text:
		sv, ok := msg.(*wrapperspb.StringValue)
		if !ok {
			return nil, &core.EncodeError{Type: fmt.Sprintf("%T", msg), Err: errors.New("text encoding only supports string-typed messages")}
		}
		return append([]byte(sv.Value), '\n'), nil
	default:
		return nil, fmt.Errorf("protoflow: unrecognized encoding %v", enc)
	}
}
