package blocks

import (
	"bufio"
	"io"
	"os"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
)

const stdioChunkSize = 4096

// ReadStdin is a source block that forwards raw chunks of the process's
// standard input as BytesValue messages until EOF.
type ReadStdin struct {
	Output core.OutputPort[*wrapperspb.BytesValue] `protoflow:"output"`

	// reader overrides os.Stdin in tests.
	reader io.Reader
}

// WithReader overrides the stream ReadStdin consumes, for tests that feed
// it something other than the process's real stdin.
func (b *ReadStdin) WithReader(r io.Reader) *ReadStdin {
	b.reader = r
	return b
}

func (b *ReadStdin) Execute(rt core.BlockRuntime) error {
	r := b.reader
	if r == nil {
		r = os.Stdin
	}
	buf := make([]byte, stdioChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 && b.Output.IsConnected() {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if sendErr := b.Output.Send(wrapperspb.Bytes(chunk)); sendErr != nil {
				return sendErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return core.NewBlockError("ReadStdin", err)
		}
		if rt.IsStopping() {
			return nil
		}
	}
}

// WriteStdout is a sink block that writes every BytesValue it receives
// directly to the process's standard output.
type WriteStdout struct {
	Input core.InputPort[*wrapperspb.BytesValue] `protoflow:"input"`

	writer io.Writer
}

// WithWriter overrides the stream WriteStdout writes to, for tests.
func (b *WriteStdout) WithWriter(w io.Writer) *WriteStdout {
	b.writer = w
	return b
}

func (b *WriteStdout) Execute(core.BlockRuntime) error {
	w := b.writer
	if w == nil {
		w = os.Stdout
	}
	return writeAll(b.Input, w, "WriteStdout")
}

// WriteStderr is WriteStdout's counterpart for standard error, used for
// diagnostics blocks that want to bypass a pipeline's stdout payload.
type WriteStderr struct {
	Input core.InputPort[*wrapperspb.BytesValue] `protoflow:"input"`

	writer io.Writer
}

func (b *WriteStderr) Execute(core.BlockRuntime) error {
	w := b.writer
	if w == nil {
		w = os.Stderr
	}
	return writeAll(b.Input, w, "WriteStderr")
}

func writeAll(in core.InputPort[*wrapperspb.BytesValue], w io.Writer, blockName string) error {
	bw := bufio.NewWriter(w)
	for {
		msg, ok, err := in.Recv()
		if err != nil {
			return err
		}
		if !ok {
			if err := bw.Flush(); err != nil {
				return core.NewBlockError(blockName, err)
			}
			return nil
		}
		if _, err := bw.Write(msg.GetValue()); err != nil {
			return core.NewBlockError(blockName, err)
		}
		if err := bw.Flush(); err != nil {
			return core.NewBlockError(blockName, err)
		}
	}
}
