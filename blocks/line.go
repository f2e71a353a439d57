package blocks

import (
	"bytes"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
)

// LineDecoder splits a raw byte stream, such as ReadStdin's output, into
// StringValue messages on newline boundaries, buffering a partial line
// across chunk boundaries. A final partial line with no trailing
// newline, left in the buffer at end-of-stream, is discarded.
type LineDecoder struct {
	Input  core.InputPort[*wrapperspb.BytesValue]  `protoflow:"input"`
	Output core.OutputPort[*wrapperspb.StringValue] `protoflow:"output"`

	buf []byte
}

func (b *LineDecoder) Execute(core.BlockRuntime) error {
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
			idx := bytes.IndexByte(b.buf, '\n')
			if idx < 0 {
				break
			}
			line := string(b.buf[:idx])
			b.buf = b.buf[idx+1:]
			if b.Output.IsConnected() {
				if err := b.Output.Send(wrapperspb.String(line)); err != nil {
					return err
				}
			}
		}
	}
}

// LineEncoder is LineDecoder's inverse: each StringValue it receives
// becomes one line, terminated with '\n' and re-chunked as BytesValue for
// a sink such as WriteStdout.
type LineEncoder struct {
	Input  core.InputPort[*wrapperspb.StringValue] `protoflow:"input"`
	Output core.OutputPort[*wrapperspb.BytesValue]  `protoflow:"output"`
}

func (b *LineEncoder) Execute(core.BlockRuntime) error {
	for {
		msg, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if b.Output.IsConnected() {
			line := append([]byte(msg.GetValue()), '\n')
			if err := b.Output.Send(wrapperspb.Bytes(line)); err != nil {
				return err
			}
		}
	}
}
