package blocks

import "github.com/TalalThabet/protoflow/core"

// Const is a source block that sends Value exactly once, then terminates.
type Const[T core.Message] struct {
	Output core.OutputPort[T] `protoflow:"output"`
	Value  T                  `protoflow:"parameter"`
}

func (b *Const[T]) Execute(core.BlockRuntime) error {
	if b.Output.IsConnected() {
		return b.Output.Send(b.Value)
	}
	return nil
}

// Drop is a sink block that discards every message it receives until
// end-of-stream.
type Drop[T core.Message] struct {
	Input core.InputPort[T] `protoflow:"input"`
}

func (b *Drop[T]) Execute(core.BlockRuntime) error {
	for {
		_, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
