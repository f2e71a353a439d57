package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TalalThabet/protoflow/core"
)

func TestPortLifecycle(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()

	state, err := tr.State(out)
	require.NoError(t, err)
	assert.True(t, state.IsOpen())

	ok, err := tr.Connect(out, in)
	require.NoError(t, err)
	assert.True(t, ok)

	state, err = tr.State(out)
	require.NoError(t, err)
	assert.True(t, state.IsConnected())

	closed, err := tr.Close(out)
	require.NoError(t, err)
	assert.True(t, closed)

	state, err = tr.State(out)
	require.NoError(t, err)
	assert.True(t, state.IsClosed())

	// Idempotent close: the second close reports false, not an error.
	closed, err = tr.Close(out)
	require.NoError(t, err)
	assert.False(t, closed)
}

// TestConnectAtMostOnce checks that a second Connect attempt on an
// already-bound output fails with ErrAlreadyConnected.
func TestConnectAtMostOnce(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in1 := tr.OpenInput()
	in2 := tr.OpenInput()

	ok, err := tr.Connect(out, in1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.Connect(out, in2)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyConnected)
}

// TestFIFOOrdering checks that frames sent on a channel arrive in the
// order they were sent.
func TestFIFOOrdering(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)

	require.NoError(t, tr.Send(out, []byte("one")))
	require.NoError(t, tr.Send(out, []byte("two")))

	frame, ok, err := tr.Recv(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("one"), frame)

	frame, ok, err = tr.Recv(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("two"), frame)
}

// TestEndOfStreamAfterClose checks that closing an output lets its peer
// drain buffered frames before observing end-of-stream.
func TestEndOfStreamAfterClose(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)
	require.NoError(t, tr.Send(out, []byte("only")))
	_, err = tr.Close(out)
	require.NoError(t, err)

	frame, ok, err := tr.Recv(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("only"), frame)

	_, ok, err = tr.Recv(in)
	require.NoError(t, err)
	assert.False(t, ok)

	// Repeated recv keeps observing end-of-stream.
	_, ok, err = tr.Recv(in)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSendToDisconnectedOutput(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()

	err := tr.Send(out, []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDisconnected)
}

func TestSendAfterPeerClosed(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)
	_, err = tr.Close(in)
	require.NoError(t, err)

	err = tr.Send(out, []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrClosed)
}

func TestBoundedTransportBackpressure(t *testing.T) {
	tr := core.NewBoundedTransport(1)
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)

	require.NoError(t, tr.Send(out, []byte("a")))

	sent := make(chan struct{})
	go func() {
		_ = tr.Send(out, []byte("b"))
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("second send should have blocked on a full bounded channel")
	case <-time.After(50 * time.Millisecond):
	}

	_, _, err = tr.Recv(in)
	require.NoError(t, err)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("second send should have unblocked once Recv freed capacity")
	}
}

func TestTryRecvWouldBlock(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)

	_, ok, err := tr.TryRecv(in)
	assert.False(t, ok)
	assert.ErrorIs(t, err, core.ErrWouldBlock)
}

func TestRecvUntilTimesOut(t *testing.T) {
	tr := core.NewMPSCTransport()
	out := tr.OpenOutput()
	in := tr.OpenInput()
	_, err := tr.Connect(out, in)
	require.NoError(t, err)

	_, ok, err := tr.RecvUntil(in, time.Now().Add(20*time.Millisecond))
	assert.False(t, ok)
	assert.ErrorIs(t, err, core.ErrWouldBlock)
}

func TestUnknownPortErrors(t *testing.T) {
	tr := core.NewMPSCTransport()
	bogus := core.PortID{Kind: core.KindOutput, Index: 999}

	_, err := tr.State(bogus)
	assert.ErrorIs(t, err, core.ErrUnknownPort)
}
