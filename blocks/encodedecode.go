package blocks

import (
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
	"github.com/TalalThabet/protoflow/encoding"
)

// Decode reassembles a raw byte stream, such as ReadStdin's output, into
// messages of type T under the configured Encoding. Like LineDecoder, it
// buffers a partial frame across chunk boundaries; unlike LineDecoder, a
// frame's boundary rule depends on Encoding (length-prefix for Protobuf,
// newline for Text and JSON — see encoding.Extract).
type Decode[T core.Message] struct {
	Input    core.InputPort[*wrapperspb.BytesValue] `protoflow:"input"`
	Output   core.OutputPort[T]                     `protoflow:"output"`
	Encoding encoding.Encoding                       `protoflow:"parameter"`

	// NewMessage constructs a fresh zero-valued T for each decoded frame.
	NewMessage func() T

	buf []byte
}

func (b *Decode[T]) Execute(core.BlockRuntime) error {
	for {
		chunk, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		b.buf = append(b.buf, chunk.GetValue()...)
		for {
			msg, rest, extracted, err := encoding.Extract(b.NewMessage, b.buf, b.Encoding)
			if err != nil {
				return err
			}
			if !extracted {
				break
			}
			b.buf = rest
			if b.Output.IsConnected() {
				if err := b.Output.Send(msg); err != nil {
					return err
				}
			}
		}
	}
}

// Encode is Decode's inverse: each message of type T is framed under the
// configured Encoding and forwarded as raw bytes, ready for a sink such as
// WriteStdout.
type Encode[T core.Message] struct {
	Input    core.InputPort[T]                      `protoflow:"input"`
	Output   core.OutputPort[*wrapperspb.BytesValue] `protoflow:"output"`
	Encoding encoding.Encoding                       `protoflow:"parameter"`
}

func (b *Encode[T]) Execute(core.BlockRuntime) error {
	for {
		msg, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !b.Output.IsConnected() {
			continue
		}
		frame, err := encoding.Frame(msg, b.Encoding)
		if err != nil {
			return err
		}
		if err := b.Output.Send(wrapperspb.Bytes(frame)); err != nil {
			return err
		}
	}
}
