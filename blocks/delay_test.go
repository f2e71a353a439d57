package blocks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/blocks"
	"github.com/TalalThabet/protoflow/core"
)

// TestFixedDelayOrdersMessagesByArrival checks that a fixed Delay
// preserves arrival order across its output.
func TestFixedDelayOrdersMessagesByArrival(t *testing.T) {
	var out core.OutputPort[*wrapperspb.StringValue]
	var in core.InputPort[*wrapperspb.StringValue]
	sink := &sinkBlock{}

	sys := core.Build(func(s *core.System) {
		out = core.Output[*wrapperspb.StringValue](s)
		delayIn := core.Input[*wrapperspb.StringValue](s)
		_, err := core.Connect(out, delayIn)
		require.NoError(t, err)

		delayOut := core.Output[*wrapperspb.StringValue](s)
		in = core.Input[*wrapperspb.StringValue](s)
		_, err = core.Connect(delayOut, in)
		require.NoError(t, err)

		s.AddBlock(&blocks.Delay[*wrapperspb.StringValue]{
			Input: delayIn, Output: delayOut,
			Kind: blocks.Fixed, Duration: 10 * time.Millisecond,
		})
		sink.Input = in
		s.AddBlock(sink)
		s.AddBlock(&sourceStream{Output: out, Values: []string{"a", "b", "c"}})
	})

	proc := sys.Execute()
	require.NoError(t, proc.Wait())
	assert.Equal(t, []string{"a", "b", "c"}, sink.Received)
}

// TestRandomDelayWaitsAtLeastMinimum checks that a random Delay waits at
// least its configured minimum before forwarding a message.
func TestRandomDelayWaitsAtLeastMinimum(t *testing.T) {
	var out core.OutputPort[*wrapperspb.StringValue]
	var in core.InputPort[*wrapperspb.StringValue]
	sink := &sinkBlock{}

	sys := core.Build(func(s *core.System) {
		out = core.Output[*wrapperspb.StringValue](s)
		delayIn := core.Input[*wrapperspb.StringValue](s)
		_, err := core.Connect(out, delayIn)
		require.NoError(t, err)

		delayOut := core.Output[*wrapperspb.StringValue](s)
		in = core.Input[*wrapperspb.StringValue](s)
		_, err = core.Connect(delayOut, in)
		require.NoError(t, err)

		s.AddBlock(&blocks.Delay[*wrapperspb.StringValue]{
			Input: delayIn, Output: delayOut,
			Kind: blocks.Random, Min: 5 * time.Millisecond, Max: 15 * time.Millisecond,
		})
		sink.Input = in
		s.AddBlock(sink)
		s.AddBlock(&sourceStream{Output: out, Values: []string{"only"}})
	})

	start := time.Now()
	proc := sys.Execute()
	require.NoError(t, proc.Wait())
	elapsed := time.Since(start)

	assert.Equal(t, []string{"only"}, sink.Received)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
}

// TestDelayDropsOnDisconnectedOutput checks that a disconnected output
// does not make Delay wait before dropping a message.
func TestDelayDropsOnDisconnectedOutput(t *testing.T) {
	var out core.OutputPort[*wrapperspb.StringValue]

	sys := core.Build(func(s *core.System) {
		out = core.Output[*wrapperspb.StringValue](s)
		delayIn := core.Input[*wrapperspb.StringValue](s)
		_, err := core.Connect(out, delayIn)
		require.NoError(t, err)

		delayOut := core.Output[*wrapperspb.StringValue](s)
		// delayOut is deliberately left unconnected.
		s.AddBlock(&blocks.Delay[*wrapperspb.StringValue]{
			Input: delayIn, Output: delayOut,
			Kind: blocks.Fixed, Duration: time.Hour,
		})
		s.AddBlock(&sourceStream{Output: out, Values: []string{"dropped"}})
	})

	start := time.Now()
	proc := sys.Execute()
	require.NoError(t, proc.Wait())
	assert.Less(t, time.Since(start), time.Second)
}

// sourceStream sends each of Values in order, then terminates — used by
// blocks tests that need more than one message out of a source.
type sourceStream struct {
	Output core.OutputPort[*wrapperspb.StringValue] `protoflow:"output"`
	Values []string                                  `protoflow:"parameter"`
}

func (b *sourceStream) Execute(core.BlockRuntime) error {
	for _, v := range b.Values {
		if !b.Output.IsConnected() {
			return nil
		}
		if err := b.Output.Send(wrapperspb.String(v)); err != nil {
			return err
		}
	}
	return nil
}

// sinkBlock records every message it receives until end-of-stream.
type sinkBlock struct {
	Input    core.InputPort[*wrapperspb.StringValue] `protoflow:"input"`
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
		b.Received = append(b.Received, msg.GetValue())
	}
}
