package core

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// System is a collection of blocks plus the transport and runtime they
// share. It is a one-shot builder: Input, Output, AddBlock may be called
// freely until Execute is invoked, after which the topology is frozen.
type System struct {
	mu        sync.Mutex
	transport Transport
	runtime   *StdRuntime
	blocks    []Block
	frozen    bool
	log       *logrus.Entry
}

// Build constructs a new System over the reference unbounded transport
// and hands it to f for population.
func Build(f func(s *System)) *System {
	return BuildWithTransport(NewMPSCTransport(), f)
}

// BuildWithTransport is Build, parameterized over the Transport
// implementation — the seam that lets a caller swap in a
// NewBoundedTransport(n) without changing any block code.
func BuildWithTransport(transport Transport, f func(s *System)) *System {
	s := &System{
		transport: transport,
		runtime:   NewRuntime(transport),
		log:       logrus.WithField("component", "system"),
	}
	f(s)
	return s
}

// Transport returns the system's message fabric.
func (s *System) Transport() Transport { return s.transport }

// Runtime returns the system's block runtime.
func (s *System) Runtime() *StdRuntime { return s.runtime }

// AddBlock registers b in the system, in insertion order, and returns it
// unchanged — the pattern used throughout this module so that
// s.AddBlock(SomeBlock{...}) reads as both construction and wiring.
func (s *System) AddBlock(b Block) Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		panic("protoflow: system already executing; cannot add a block")
	}
	s.blocks = append(s.blocks, b)
	return b
}

func (s *System) checkMutable() {
	if s.frozen {
		panic("protoflow: system already executing; topology is frozen")
	}
}

// Execute transitions the system to running: it freezes the topology and
// hands the block set to the runtime, returning a Process handle
// immediately without waiting for any block to finish.
func (s *System) Execute() Process {
	s.mu.Lock()
	s.checkMutable()
	s.frozen = true
	blocks := append([]Block(nil), s.blocks...)
	s.mu.Unlock()

	s.log.WithField("blocks", len(blocks)).Info("executing system")
	return s.runtime.Execute(blocks)
}

// Input allocates a fresh input port of message type M on s's transport.
// It is a package-level function, not a method, because Go methods
// cannot carry their own type parameters.
func Input[M Message](s *System) InputPort[M] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkMutable()
	return NewInputPort[M](s.transport, newOfType[M])
}

// Output allocates a fresh output port of message type M on s's transport.
func Output[M Message](s *System) OutputPort[M] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkMutable()
	return NewOutputPort[M](s.transport)
}

// newOfType allocates a zero-valued M for a concrete pointer-to-message
// type M (e.g. *wrapperspb.StringValue), via reflection on M's pointee —
// the trick that lets InputPort[M].Recv construct a fresh destination
// value without the caller supplying an explicit factory.
func newOfType[M Message]() M {
	var zero M
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Ptr {
		panic("protoflow: message type parameter must be a pointer to a generated protobuf message")
	}
	return reflect.New(t.Elem()).Interface().(M)
}
