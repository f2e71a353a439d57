package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
)

// sourceBlock sends a single configured value then terminates — a minimal
// stand-in for the standard library's Const block, kept here so core's
// tests don't depend on the blocks package.
type sourceBlock struct {
	Output core.OutputPort[*wrapperspb.StringValue] `protoflow:"output"`
	Value  string                                   `protoflow:"parameter"`
}

func (b *sourceBlock) Execute(core.BlockRuntime) error {
	if b.Output.IsConnected() {
		return b.Output.Send(wrapperspb.String(b.Value))
	}
	return nil
}

// sinkBlock records every message it receives until end-of-stream — a
// minimal stand-in for Drop/Collect.
type sinkBlock struct {
	Input core.InputPort[*wrapperspb.StringValue] `protoflow:"input"`

	mu       sync.Mutex
	Received []string
}

func (b *sinkBlock) Execute(core.BlockRuntime) error {
	for {
		msg, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		b.mu.Lock()
		b.Received = append(b.Received, msg.GetValue())
		b.mu.Unlock()
	}
}

// TestOneHopPassThroughScenario wires Const("hello") -> Drop and checks
// the system reaches quiescence and shuts down cleanly.
func TestOneHopPassThroughScenario(t *testing.T) {
	sink := &sinkBlock{}
	var out core.OutputPort[*wrapperspb.StringValue]
	var in core.InputPort[*wrapperspb.StringValue]

	sys := core.Build(func(s *core.System) {
		out = core.Output[*wrapperspb.StringValue](s)
		in = core.Input[*wrapperspb.StringValue](s)
		s.AddBlock(&sourceBlock{Output: out, Value: "hello"})
		sink.Input = in
		s.AddBlock(sink)

		ok, err := core.Connect[*wrapperspb.StringValue](out, in)
		require.NoError(t, err)
		require.True(t, ok)
	})

	proc := sys.Execute()
	require.NoError(t, proc.Wait())

	assert.Equal(t, []string{"hello"}, sink.Received)
	assert.True(t, out.IsClosed())
	assert.True(t, in.IsClosed())
}

func TestSystemFreezesAfterExecute(t *testing.T) {
	sys := core.Build(func(s *core.System) {})
	sys.Execute()

	assert.Panics(t, func() {
		core.Input[*wrapperspb.StringValue](sys)
	})
	assert.Panics(t, func() {
		sys.AddBlock(&sinkBlock{})
	})
}

func TestBlockErrorPropagatesAsFirstError(t *testing.T) {
	boom := core.NewBlockError("failing", assertError{})
	sys := core.Build(func(s *core.System) {
		s.AddBlock(&erroringBlock{err: boom})
	})
	proc := sys.Execute()
	err := proc.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

type erroringBlock struct {
	err error
}

func (b *erroringBlock) Execute(core.BlockRuntime) error { return b.err }

type assertError struct{}

func (assertError) Error() string { return "boom" }
