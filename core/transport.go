package core

import (
	"errors"
	"time"
)

// Transport is the process-wide message fabric. Implementations must
// provide per-channel FIFO ordering, thread-safe Send from any number of
// concurrent producers, and at most one concurrent consumer per input.
//
// Two constructors ship with this package: NewMPSCTransport (the
// reference, unbounded design) and NewBoundedTransport (fixed per-channel
// capacity, for backpressure). Both return the same implementation behind
// this interface, so block code never depends on which one a System was
// built with.
type Transport interface {
	// OpenInput allocates a fresh input port in state Open.
	OpenInput() PortID
	// OpenOutput allocates a fresh output port in state Open.
	OpenOutput() PortID

	// Connect binds out to in. It returns true the first time a given pair
	// is successfully bound, and false (with an error describing why) on
	// any later or conflicting attempt.
	Connect(out, in PortID) (bool, error)

	// Send enqueues frame on the input connected to out. It fails with a
	// PortError wrapping ErrDisconnected if out has no peer, or ErrClosed
	// if either side has been closed.
	Send(out PortID, frame []byte) error

	// Recv returns the next frame queued for in, blocking until one is
	// available. It returns (nil, false, nil) at end-of-stream: the
	// producer has closed and the queue has drained.
	Recv(in PortID) ([]byte, bool, error)

	// TryRecv is the non-blocking variant of Recv. If no frame is
	// immediately available and the channel has not reached end-of-stream,
	// it returns (nil, false, ErrWouldBlock).
	TryRecv(in PortID) ([]byte, bool, error)

	// RecvUntil blocks until a frame arrives, end-of-stream is reached, or
	// the deadline passes, in which case it returns ErrWouldBlock.
	RecvUntil(in PortID, deadline time.Time) ([]byte, bool, error)

	// Close is idempotent: the first call on a given port returns true,
	// every later call returns false. Closing an output lets its peer
	// drain and then observe end-of-stream. Closing an input discards
	// buffered frames and causes peer sends to fail with ErrClosed.
	Close(port PortID) (bool, error)

	// State reports the current lifecycle state of port.
	State(port PortID) (PortState, error)

	// Metrics exposes this transport's Prometheus counters.
	Metrics() *Metrics
}

// ErrWouldBlock is returned by TryRecv and RecvUntil when no frame is
// available yet and the channel has not reached end-of-stream.
var ErrWouldBlock = errors.New("protoflow: recv would block")
