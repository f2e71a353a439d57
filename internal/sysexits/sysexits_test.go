package sysexits_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TalalThabet/protoflow/blocks"
	"github.com/TalalThabet/protoflow/core"
	"github.com/TalalThabet/protoflow/internal/sysexits"
)

func TestCodeMapsKnownErrorKinds(t *testing.T) {
	assert.Equal(t, sysexits.OK, sysexits.Code(nil))

	assert.Equal(t, sysexits.Usage, sysexits.Code(&blocks.StdioError{Kind: blocks.InvalidParameter, Param: "fixed"}))
	assert.Equal(t, sysexits.DataErr, sysexits.Code(&core.DecodeError{Type: "T", Err: errors.New("bad")}))
	assert.Equal(t, sysexits.NoInput, sysexits.Code(os.ErrNotExist))
	assert.Equal(t, sysexits.Software, sysexits.Code(core.NewBlockError("X", errors.New("boom"))))
	assert.Equal(t, sysexits.Software, sysexits.Code(errors.New("unclassified")))
}
