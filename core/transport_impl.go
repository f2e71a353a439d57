package core

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// channelState is the shared queue backing one connected (output, input)
// pair. capacity == 0 means unbounded (the MPSCTransport default);
// capacity > 0 makes Send block once the queue is full (BoundedTransport).
type channelState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     [][]byte
	capacity  int
	outClosed bool
	inClosed  bool
}

// portRecord is a transport's bookkeeping for one allocated port id.
type portRecord struct {
	state PortState
	ch    *channelState // nil until Connect succeeds
}

// transport is the shared implementation behind both NewMPSCTransport and
// NewBoundedTransport: the same mutex+condvar FIFO design, differing only
// in whether a channel's queue has a capacity ceiling. Block code never
// observes which constructor produced its System's Transport.
type transport struct {
	mu      sync.Mutex
	nextIn  uint64
	nextOut uint64
	ports   map[PortID]*portRecord

	capacity int
	metrics  *Metrics
	log      *logrus.Entry
}

// NewMPSCTransport returns the reference transport: unbounded
// multi-producer/single-consumer queues per channel, so Send never
// blocks and a slow consumer cannot stall a producer.
func NewMPSCTransport() Transport {
	return newTransport(0)
}

// NewBoundedTransport returns a transport whose channels hold at most
// capacity frames; Send blocks while a channel is full, until a Recv frees
// space or either port closes. No non-blocking send is provided. It
// satisfies the same Transport interface as NewMPSCTransport, so it can
// be swapped in without any change to block code.
func NewBoundedTransport(capacity int) Transport {
	if capacity <= 0 {
		capacity = 1
	}
	return newTransport(capacity)
}

func newTransport(capacity int) *transport {
	return &transport{
		ports:    make(map[PortID]*portRecord),
		capacity: capacity,
		metrics:  newMetrics(),
		log:      logrus.WithField("component", "transport"),
	}
}

func (t *transport) OpenInput() PortID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextIn++
	id := PortID{Kind: KindInput, Index: t.nextIn}
	t.ports[id] = &portRecord{state: StateOpen}
	t.metrics.portsOpened.Inc()
	return id
}

func (t *transport) OpenOutput() PortID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextOut++
	id := PortID{Kind: KindOutput, Index: t.nextOut}
	t.ports[id] = &portRecord{state: StateOpen}
	t.metrics.portsOpened.Inc()
	return id
}

// lookup returns the live snapshot of a port's bookkeeping. It fails if id
// was never allocated by this transport, or its Kind doesn't match what
// the caller expects (an input id presented where an output was wanted).
func (t *transport) lookup(id PortID, kind PortKind) (state PortState, ch *channelState, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.ports[id]
	if !ok || id.Kind != kind {
		return 0, nil, newPortError("lookup", id, ErrUnknownPort)
	}
	return rec.state, rec.ch, nil
}

func (t *transport) Connect(out, in PortID) (bool, error) {
	if out.Kind != KindOutput {
		return false, newPortError("connect", out, ErrUnknownPort)
	}
	if in.Kind != KindInput {
		return false, newPortError("connect", in, ErrUnknownPort)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	outRec, ok := t.ports[out]
	if !ok {
		return false, newPortError("connect", out, ErrUnknownPort)
	}
	inRec, ok := t.ports[in]
	if !ok {
		return false, newPortError("connect", in, ErrUnknownPort)
	}
	if outRec.state == StateClosed {
		return false, newPortError("connect", out, ErrClosed)
	}
	if inRec.state == StateClosed {
		return false, newPortError("connect", in, ErrClosed)
	}
	if outRec.state == StateConnected || inRec.state == StateConnected {
		return false, newPortError("connect", out, ErrAlreadyConnected)
	}
	ch := &channelState{capacity: t.capacity}
	ch.cond = sync.NewCond(&ch.mu)
	outRec.ch, inRec.ch = ch, ch
	outRec.state, inRec.state = StateConnected, StateConnected
	t.log.WithFields(logrus.Fields{"out": out.String(), "in": in.String()}).Debug("connected ports")
	return true, nil
}

func (t *transport) Send(out PortID, frame []byte) error {
	state, ch, err := t.lookup(out, KindOutput)
	if err != nil {
		return err
	}
	if state == StateClosed {
		return newPortError("send", out, ErrClosed)
	}
	if ch == nil {
		return newPortError("send", out, ErrDisconnected)
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for ch.capacity > 0 && len(ch.queue) >= ch.capacity && !ch.inClosed && !ch.outClosed {
		ch.cond.Wait()
	}
	if ch.inClosed || ch.outClosed {
		return newPortError("send", out, ErrClosed)
	}
	ch.queue = append(ch.queue, frame)
	ch.cond.Broadcast()
	t.metrics.messagesSent.WithLabelValues(out.String()).Inc()
	return nil
}

func (t *transport) Recv(in PortID) ([]byte, bool, error) {
	_, ch, err := t.lookup(in, KindInput)
	if err != nil {
		return nil, false, err
	}
	if ch == nil {
		return nil, false, nil // never connected: no producer will ever arrive
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for len(ch.queue) == 0 && !ch.outClosed && !ch.inClosed {
		ch.cond.Wait()
	}
	return t.drain(in, ch)
}

func (t *transport) TryRecv(in PortID) ([]byte, bool, error) {
	_, ch, err := t.lookup(in, KindInput)
	if err != nil {
		return nil, false, err
	}
	if ch == nil {
		return nil, false, nil
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.queue) == 0 && !ch.outClosed && !ch.inClosed {
		return nil, false, ErrWouldBlock
	}
	return t.drain(in, ch)
}

func (t *transport) RecvUntil(in PortID, deadline time.Time) ([]byte, bool, error) {
	_, ch, err := t.lookup(in, KindInput)
	if err != nil {
		return nil, false, err
	}
	if ch == nil {
		return nil, false, nil
	}
	timer := time.AfterFunc(time.Until(deadline), func() {
		ch.mu.Lock()
		ch.cond.Broadcast()
		ch.mu.Unlock()
	})
	defer timer.Stop()

	ch.mu.Lock()
	defer ch.mu.Unlock()
	for len(ch.queue) == 0 && !ch.outClosed && !ch.inClosed {
		if !time.Now().Before(deadline) {
			return nil, false, ErrWouldBlock
		}
		ch.cond.Wait()
	}
	return t.drain(in, ch)
}

// drain pops the head frame off ch's queue, if any, under ch.mu already
// held by the caller. An empty queue at this point means the channel has
// reached end-of-stream.
func (t *transport) drain(in PortID, ch *channelState) ([]byte, bool, error) {
	if len(ch.queue) == 0 {
		return nil, false, nil
	}
	frame := ch.queue[0]
	ch.queue = ch.queue[1:]
	ch.cond.Broadcast() // wake any sender blocked on a full bounded queue
	t.metrics.messagesRecv.WithLabelValues(in.String()).Inc()
	return frame, true, nil
}

func (t *transport) Close(port PortID) (bool, error) {
	t.mu.Lock()
	rec, ok := t.ports[port]
	if !ok {
		t.mu.Unlock()
		return false, newPortError("close", port, ErrUnknownPort)
	}
	if rec.state == StateClosed {
		t.mu.Unlock()
		return false, nil
	}
	rec.state = StateClosed
	ch := rec.ch
	t.mu.Unlock()

	t.metrics.portsClosed.Inc()
	t.log.WithField("port", port.String()).Debug("closed port")

	if ch == nil {
		return true, nil
	}
	ch.mu.Lock()
	if port.Kind == KindOutput {
		ch.outClosed = true
	} else {
		ch.inClosed = true
		ch.queue = nil // discard buffered frames
	}
	ch.cond.Broadcast()
	ch.mu.Unlock()
	return true, nil
}

func (t *transport) State(port PortID) (PortState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.ports[port]
	if !ok {
		return 0, newPortError("state", port, ErrUnknownPort)
	}
	return rec.state, nil
}

func (t *transport) Metrics() *Metrics { return t.metrics }
