package core

import "time"

// OutputPort is the typed producer facade over a transport output id. It
// is a small value type — an id plus a transport handle — so it is cheap
// to copy, and multiple producers may hold and send on the same
// OutputPort[T] concurrently.
type OutputPort[T Message] struct {
	id        PortID
	transport Transport
}

// NewOutputPort allocates a fresh output port on transport.
func NewOutputPort[T Message](transport Transport) OutputPort[T] {
	return OutputPort[T]{id: transport.OpenOutput(), transport: transport}
}

// ID returns the port's stable identifier.
func (p OutputPort[T]) ID() PortID { return p.id }

// State reports the port's current lifecycle state.
func (p OutputPort[T]) State() PortState {
	s, err := p.transport.State(p.id)
	if err != nil {
		return StateClosed
	}
	return s
}

// IsOpen reports whether the port has not yet been connected or closed.
func (p OutputPort[T]) IsOpen() bool { return p.State().IsOpen() }

// IsConnected reports whether the port has a live peer.
func (p OutputPort[T]) IsConnected() bool { return p.State().IsConnected() }

// IsClosed reports whether the port has reached its terminal state.
func (p OutputPort[T]) IsClosed() bool { return p.State().IsClosed() }

// Close closes the port. It is idempotent: only the first call returns
// true.
func (p OutputPort[T]) Close() (bool, error) { return p.transport.Close(p.id) }

// Send encodes m as length-delimited protobuf and forwards it to the
// connected input. It fails with a PortError wrapping ErrDisconnected if
// this port has no peer, or ErrClosed if either end has been closed.
func (p OutputPort[T]) Send(m T) error {
	frame, err := EncodeMessage(m)
	if err != nil {
		return err
	}
	return p.transport.Send(p.id, frame)
}

// InputPort is the typed consumer facade over a transport input id. Unlike
// OutputPort, an InputPort is single-owner: at most one goroutine may call
// Recv/TryRecv/RecvUntil on a given InputPort at a time.
type InputPort[T Message] struct {
	id        PortID
	transport Transport
	newT      func() T
}

// NewInputPort allocates a fresh input port on transport. newT constructs
// a zero-valued T for DecodeMessage to populate on each Recv.
func NewInputPort[T Message](transport Transport, newT func() T) InputPort[T] {
	return InputPort[T]{id: transport.OpenInput(), transport: transport, newT: newT}
}

// ID returns the port's stable identifier.
func (p InputPort[T]) ID() PortID { return p.id }

// State reports the port's current lifecycle state.
func (p InputPort[T]) State() PortState {
	s, err := p.transport.State(p.id)
	if err != nil {
		return StateClosed
	}
	return s
}

// IsOpen reports whether the port has not yet been connected or closed.
func (p InputPort[T]) IsOpen() bool { return p.State().IsOpen() }

// IsConnected reports whether the port has a live peer.
func (p InputPort[T]) IsConnected() bool { return p.State().IsConnected() }

// IsClosed reports whether the port has reached its terminal state.
func (p InputPort[T]) IsClosed() bool { return p.State().IsClosed() }

// Close closes the port, discarding any buffered frames. It is idempotent.
func (p InputPort[T]) Close() (bool, error) { return p.transport.Close(p.id) }

// Recv blocks until a message is available, decodes it, and returns it.
// It returns (zero, false, nil) at end-of-stream — never as an error.
func (p InputPort[T]) Recv() (T, bool, error) {
	frame, ok, err := p.transport.Recv(p.id)
	return p.decode(frame, ok, err)
}

// TryRecv is the non-blocking variant of Recv: it returns ErrWouldBlock if
// no message is queued yet and the channel hasn't reached end-of-stream.
func (p InputPort[T]) TryRecv() (T, bool, error) {
	frame, ok, err := p.transport.TryRecv(p.id)
	return p.decode(frame, ok, err)
}

// RecvUntil is the bounded-wait variant of Recv.
func (p InputPort[T]) RecvUntil(deadline time.Time) (T, bool, error) {
	frame, ok, err := p.transport.RecvUntil(p.id, deadline)
	return p.decode(frame, ok, err)
}

func (p InputPort[T]) decode(frame []byte, ok bool, err error) (T, bool, error) {
	if err != nil || !ok {
		var zero T
		return zero, ok, err
	}
	m, err := DecodeMessage(p.newT, frame)
	return m, true, err
}

// Connect binds an output port to an input port of the same message type.
// The shared type parameter T makes mismatched-type connections a compile
// error instead of a runtime one. It returns true only on the first
// successful bind of this exact pair.
func Connect[T Message](out OutputPort[T], in InputPort[T]) (bool, error) {
	return out.transport.Connect(out.id, in.id)
}
