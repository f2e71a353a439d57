package blocks

import (
	"io"
	"os"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
)

const fileChunkSize = 32 * 1024

// ReadFile is a transformer block that, for each path it receives on Path,
// opens that file and streams its contents as a sequence of BytesValue
// chunks. Letting the path itself travel through the graph — rather than
// fixing it at construction, as WriteFile does — lets one ReadFile serve
// a sequence of files driven by an upstream block.
type ReadFile struct {
	Path   core.InputPort[*wrapperspb.StringValue] `protoflow:"input"`
	Output core.OutputPort[*wrapperspb.BytesValue]  `protoflow:"output"`
}

func (b *ReadFile) Execute(rt core.BlockRuntime) error {
	for {
		path, ok, err := b.Path.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := b.readOne(path.GetValue()); err != nil {
			return err
		}
		if rt.IsStopping() {
			return nil
		}
	}
}

func (b *ReadFile) readOne(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return core.NewBlockError("ReadFile", err)
	}
	defer f.Close()

	buf := make([]byte, fileChunkSize)
	for {
		n, err := f.Read(buf)
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
			return core.NewBlockError("ReadFile", err)
		}
	}
}

// WriteFile is a sink block that creates the file named by Path,
// truncating any existing content, and writes every BytesValue it
// receives to it in order. Path is a fixed parameter, not a port: unlike
// ReadFile, one WriteFile instance always writes to a single destination.
type WriteFile struct {
	Input core.InputPort[*wrapperspb.BytesValue] `protoflow:"input"`
	Path  string                                  `protoflow:"parameter"`
}

func (b *WriteFile) Execute(core.BlockRuntime) error {
	f, err := os.Create(b.Path)
	if err != nil {
		return core.NewBlockError("WriteFile", err)
	}
	defer f.Close()

	for {
		msg, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return f.Close()
		}
		if _, err := f.Write(msg.GetValue()); err != nil {
			return core.NewBlockError("WriteFile", err)
		}
	}
}
