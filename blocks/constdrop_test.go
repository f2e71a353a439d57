package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/blocks"
	"github.com/TalalThabet/protoflow/core"
)

func TestConstSendsValueOnceThenTerminates(t *testing.T) {
	sink := &sinkBlock{}
	sys := core.Build(func(s *core.System) {
		out := core.Output[*wrapperspb.StringValue](s)
		in := core.Input[*wrapperspb.StringValue](s)
		_, err := core.Connect(out, in)
		require.NoError(t, err)

		s.AddBlock(&blocks.Const[*wrapperspb.StringValue]{Output: out, Value: wrapperspb.String("hello")})
		sink.Input = in
		s.AddBlock(sink)
	})

	proc := sys.Execute()
	require.NoError(t, proc.Wait())
	assert.Equal(t, []string{"hello"}, sink.Received)
}

func TestDropDiscardsEverything(t *testing.T) {
	sys := core.Build(func(s *core.System) {
		out := core.Output[*wrapperspb.StringValue](s)
		in := core.Input[*wrapperspb.StringValue](s)
		_, err := core.Connect(out, in)
		require.NoError(t, err)

		s.AddBlock(&sourceStream{Output: out, Values: []string{"a", "b"}})
		s.AddBlock(&blocks.Drop[*wrapperspb.StringValue]{Input: in})
	})

	proc := sys.Execute()
	require.NoError(t, proc.Wait())
}
