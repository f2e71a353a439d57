package core

import (
	"context"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runtime concurrently executes a system's blocks and provides the
// ambient services in BlockRuntime.
type Runtime interface {
	// Execute spawns one concurrent unit of execution per block and
	// returns immediately with a Process handle; it does not block until
	// the blocks finish.
	Execute(blocks []Block) Process
}

// StdRuntime is the reference Runtime: one goroutine per block, fanned
// out and joined with golang.org/x/sync/errgroup, which collects the
// first error any block returns.
type StdRuntime struct {
	ctx    context.Context
	cancel context.CancelFunc

	transport Transport
	log       *logrus.Entry

	stoppingMu sync.RWMutex
	stopping   bool

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewRuntime constructs a StdRuntime bound to transport, whose Metrics it
// updates as blocks start, complete, and fail.
func NewRuntime(transport Transport) *StdRuntime {
	ctx, cancel := context.WithCancel(context.Background())
	return &StdRuntime{
		ctx:       ctx,
		cancel:    cancel,
		transport: transport,
		log:       logrus.WithField("component", "runtime"),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Context is cancelled when the runtime begins shutdown.
func (r *StdRuntime) Context() context.Context { return r.ctx }

// SleepFor cooperatively waits at least d, returning early with
// context.Canceled if the runtime shuts down first.
func (r *StdRuntime) SleepFor(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-r.ctx.Done():
		return context.Canceled
	}
}

// RandomDuration returns a uniform random duration in [lo, hi). If hi <=
// lo it returns lo.
func (r *StdRuntime) RandomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return lo + time.Duration(r.rnd.Int63n(int64(hi-lo)))
}

// IsStopping reports whether the runtime has begun shutdown.
func (r *StdRuntime) IsStopping() bool {
	r.stoppingMu.RLock()
	defer r.stoppingMu.RUnlock()
	return r.stopping
}

// Now returns the current wall-clock time.
func (r *StdRuntime) Now() time.Time { return time.Now() }

// Logger returns the runtime's base logger.
func (r *StdRuntime) Logger() *logrus.Entry { return r.log }

// Execute spawns one goroutine per block. When a block's Execute returns,
// the runtime closes every port that block still owns before recording
// its outcome. The first error of the run is what Process.Wait
// ultimately reports; later errors are only logged.
func (r *StdRuntime) Execute(blocks []Block) Process {
	id := uuid.New()
	log := r.log.WithField("process", id.String())
	metrics := r.transport.Metrics()

	var g errgroup.Group
	for _, b := range blocks {
		b := b
		name := BlockName(b)
		blockLog := log.WithField("block", name)
		metrics.blocksStarted.Inc()
		g.Go(func() error {
			blockLog.Debug("block starting")
			defer closeBlockPorts(b)
			err := b.Execute(r)
			if err != nil {
				metrics.blocksFailed.Inc()
				blockLog.WithError(err).Warn("block failed")
				return err
			}
			metrics.blocksCompleted.Inc()
			blockLog.Debug("block completed")
			return nil
		})
	}

	proc := &stdProcess{id: id, done: make(chan struct{}), runtime: r, blocks: blocks}
	go func() {
		proc.err = g.Wait()
		close(proc.done)
	}()
	return proc
}

func (r *StdRuntime) shutdown() {
	r.stoppingMu.Lock()
	r.stopping = true
	r.stoppingMu.Unlock()
	r.cancel()
}

// closeBlockPorts closes every exported field of block that implements
// Port, regardless of that field's message type parameter — reflection is
// what lets the runtime release ports without knowing a block's payload
// types.
func closeBlockPorts(block Block) {
	v := reflect.Indirect(reflect.ValueOf(block))
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanInterface() {
			continue
		}
		if p, ok := f.Interface().(Port); ok {
			_, _ = p.Close()
		}
	}
}
