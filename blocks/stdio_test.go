package blocks_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/blocks"
	"github.com/TalalThabet/protoflow/core"
)

func TestReadStdinWriteStdoutPassThrough(t *testing.T) {
	input := bytes.NewBufferString("arbitrary bytes, no newline required")
	var output bytes.Buffer

	sys := core.Build(func(s *core.System) {
		out := core.Output[*wrapperspb.BytesValue](s)
		in := core.Input[*wrapperspb.BytesValue](s)
		_, err := core.Connect(out, in)
		require.NoError(t, err)

		s.AddBlock((&blocks.ReadStdin{Output: out}).WithReader(input))
		s.AddBlock((&blocks.WriteStdout{Input: in}).WithWriter(&output))
	})

	proc := sys.Execute()
	require.NoError(t, proc.Wait())
	assert.Equal(t, "arbitrary bytes, no newline required", output.String())
}
