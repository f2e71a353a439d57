package blocks

import (
	"time"

	"github.com/TalalThabet/protoflow/core"
)

// DelayKind selects Delay's timing behavior.
type DelayKind int

const (
	// Fixed waits exactly Duration before forwarding each message.
	Fixed DelayKind = iota
	// Random waits a uniform duration in [Min, Max) before forwarding.
	Random
)

// Delay forwards each message it receives to its output after waiting,
// per Kind. If Output has no connected peer when a message arrives, Delay
// drops the message immediately without waiting: there is nowhere to
// deliver it, so the wait would be pure overhead.
type Delay[T core.Message] struct {
	Input    core.InputPort[T]  `protoflow:"input"`
	Output   core.OutputPort[T] `protoflow:"output"`
	Kind     DelayKind          `protoflow:"parameter"`
	Duration time.Duration      `protoflow:"parameter"`
	Min      time.Duration      `protoflow:"parameter"`
	Max      time.Duration      `protoflow:"parameter"`
}

func (b *Delay[T]) Execute(rt core.BlockRuntime) error {
	for {
		msg, ok, err := b.Input.Recv()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !b.Output.IsConnected() {
			continue
		}
		wait := b.Duration
		if b.Kind == Random {
			wait = rt.RandomDuration(b.Min, b.Max)
		}
		if wait > 0 {
			if err := rt.SleepFor(wait); err != nil {
				return err
			}
		}
		if !b.Output.IsConnected() {
			continue
		}
		if err := b.Output.Send(msg); err != nil {
			return err
		}
	}
}
