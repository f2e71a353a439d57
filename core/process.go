package core

import "github.com/google/uuid"

// Process is a handle to a running System: the caller awaits overall
// termination through it.
type Process interface {
	// ID is this run's correlation id, used as a logrus field on every
	// block's log lines.
	ID() uuid.UUID
	// Wait blocks until every block has terminated and returns the first
	// BlockError encountered, or nil.
	Wait() error
	// Done returns a channel that is closed once every block has
	// terminated.
	Done() <-chan struct{}
	// Shutdown puts the runtime into eager-shutdown mode: it cancels the
	// shared context (so SleepFor and context-aware blocks unwind) and
	// closes every port still held by the process's blocks, so blocked
	// Recv calls observe end-of-stream immediately instead of waiting for
	// each block to drain naturally.
	Shutdown()
}

type stdProcess struct {
	id      uuid.UUID
	done    chan struct{}
	err     error
	runtime *StdRuntime
	blocks  []Block
}

func (p *stdProcess) ID() uuid.UUID { return p.id }

func (p *stdProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *stdProcess) Done() <-chan struct{} { return p.done }

func (p *stdProcess) Shutdown() {
	p.runtime.shutdown()
	for _, b := range p.blocks {
		closeBlockPorts(b)
	}
}
