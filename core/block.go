package core

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Block is the minimal, reflective contract every dataflow unit
// implements: an Execute loop that drives the block to completion or
// returns an error. The System stores blocks behind this object-safe
// interface, erasing each block's payload types — those live only on the
// block's own InputPort[T]/OutputPort[T] fields.
type Block interface {
	// Execute is the block's main loop. It is invoked at most once per
	// system execution and must return once every input it owns has
	// reached end-of-stream (or, for a source, once it has no more data
	// to produce).
	Execute(runtime BlockRuntime) error
}

// Named is implemented by blocks that want a specific name to appear in
// their Descriptor and in the CLI registry, instead of the Go struct name.
type Named interface {
	BlockName() string
}

// BlockRuntime is the set of ambient services the runtime makes available
// to a block's Execute method.
type BlockRuntime interface {
	// Context is cancelled when the runtime begins shutdown.
	Context() context.Context
	// SleepFor waits at least d, or returns a cancellation error if the
	// runtime shuts down first.
	SleepFor(d time.Duration) error
	// RandomDuration returns a uniform random duration in [lo, hi).
	RandomDuration(lo, hi time.Duration) time.Duration
	// IsStopping reports whether the runtime has begun shutdown.
	IsStopping() bool
	// Now returns the current time (a seam for deterministic tests).
	Now() time.Time
	// Logger returns a logger pre-tagged with this execution's
	// correlation fields.
	Logger() *logrus.Entry
}

// PortDescriptor describes one input or output field of a block.
type PortDescriptor struct {
	Name     string // the struct field name
	TypeName string // the Go type of the port, e.g. core.InputPort[*wrapperspb.StringValue]
	Optional bool
}

// ParameterDescriptor describes one configuration field of a block.
type ParameterDescriptor struct {
	Name     string
	TypeName string
}

// Descriptor is a block's introspectable shape: its ordered inputs,
// outputs, and parameters. It is used for CLI wiring and diagram
// rendering.
type Descriptor struct {
	Inputs     []PortDescriptor
	Outputs    []PortDescriptor
	Parameters []ParameterDescriptor
}

// Describe derives a Descriptor from block's struct tags by reflection,
// so a block author tags each field `protoflow:"input"`,
// `protoflow:"output"`, or `protoflow:"parameter"` (optionally
// `,optional`) and never hand-writes a parallel descriptor.
func Describe(block any) Descriptor {
	var d Descriptor
	v := reflect.Indirect(reflect.ValueOf(block))
	if v.Kind() != reflect.Struct {
		return d
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("protoflow")
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		optional := false
		for _, p := range parts[1:] {
			if strings.TrimSpace(p) == "optional" {
				optional = true
			}
		}
		switch strings.TrimSpace(parts[0]) {
		case "input":
			d.Inputs = append(d.Inputs, PortDescriptor{
				Name: field.Name, TypeName: field.Type.String(), Optional: optional,
			})
		case "output":
			d.Outputs = append(d.Outputs, PortDescriptor{
				Name: field.Name, TypeName: field.Type.String(), Optional: optional,
			})
		case "parameter":
			d.Parameters = append(d.Parameters, ParameterDescriptor{
				Name: field.Name, TypeName: field.Type.String(),
			})
		}
	}
	return d
}

// BlockName returns a block's registry/log name: its Named.BlockName() if
// implemented, otherwise its bare Go type name.
func BlockName(block any) string {
	if n, ok := block.(Named); ok {
		return n.BlockName()
	}
	t := reflect.Indirect(reflect.ValueOf(block)).Type()
	return t.Name()
}
