// Package core implements the Protoflow port/transport/block/runtime layer:
// the typed, concurrent message-passing fabric that dataflow systems run on.
package core

import "fmt"

// PortKind distinguishes an input endpoint from an output endpoint.
type PortKind int

const (
	// KindInput identifies a port that consumes messages.
	KindInput PortKind = iota
	// KindOutput identifies a port that produces messages.
	KindOutput
)

func (k PortKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// PortID is a stable, opaque identifier for a port endpoint. Ids are unique
// within the Transport instance that allocated them.
type PortID struct {
	Kind  PortKind
	Index uint64
}

func (id PortID) String() string {
	return fmt.Sprintf("%s#%d", id.Kind, id.Index)
}

// PortState is the lifecycle of a port: Open -> Connected -> Closed, with a
// terminal Closed -> Closed self-loop on repeated closes.
type PortState int

const (
	// StateOpen is the initial state of a freshly allocated port.
	StateOpen PortState = iota
	// StateConnected is entered once connect() succeeds.
	StateConnected
	// StateClosed is terminal.
	StateClosed
)

func (s PortState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// IsOpen reports whether the port has not yet been connected or closed.
func (s PortState) IsOpen() bool { return s == StateOpen }

// IsConnected reports whether the port is bound to a live peer.
func (s PortState) IsConnected() bool { return s == StateConnected }

// IsClosed reports whether the port has reached its terminal state.
func (s PortState) IsClosed() bool { return s == StateClosed }

// Port is the common interface implemented by both OutputPort[T] and
// InputPort[T].
type Port interface {
	ID() PortID
	State() PortState
	IsOpen() bool
	IsConnected() bool
	IsClosed() bool
	Close() (bool, error)
}
