package blocks

import (
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/TalalThabet/protoflow/core"
	"github.com/TalalThabet/protoflow/encoding"
)

func init() {
	Register(Entry{Name: "Delay", Build: buildDelay})
	Register(Entry{Name: "ReadFile", Build: buildReadFile})
}

// WireStdioFilter wires the standard ReadStdin -> Decode[T] -> ... ->
// Encode[T] -> WriteStdout pipeline used by the `execute` command,
// returning the ports a block of message type T should read from and
// write to.
func WireStdioFilter[T core.Message](s *core.System, enc encoding.Encoding, newT func() T) (core.InputPort[T], core.OutputPort[T]) {
	stdinOut := core.Output[*wrapperspb.BytesValue](s)
	decodeIn := core.Input[*wrapperspb.BytesValue](s)
	mustConnect(stdinOut, decodeIn)
	s.AddBlock(&ReadStdin{Output: stdinOut})

	decodeOut := core.Output[T](s)
	blockIn := core.Input[T](s)
	s.AddBlock(&Decode[T]{Input: decodeIn, Output: decodeOut, Encoding: enc, NewMessage: newT})
	mustConnect(decodeOut, blockIn)

	blockOut := core.Output[T](s)
	encodeIn := core.Input[T](s)
	mustConnect(blockOut, encodeIn)

	encodeOut := core.Output[*wrapperspb.BytesValue](s)
	s.AddBlock(&Encode[T]{Input: encodeIn, Output: encodeOut, Encoding: enc})

	stdoutIn := core.Input[*wrapperspb.BytesValue](s)
	mustConnect(encodeOut, stdoutIn)
	s.AddBlock(&WriteStdout{Input: stdoutIn})

	return blockIn, blockOut
}

// mustConnect binds two freshly allocated ports of a system under
// construction. It can only fail if a port is reused or mistyped, which
// never happens for ports this package allocates itself.
func mustConnect[T core.Message](out core.OutputPort[T], in core.InputPort[T]) {
	if _, err := core.Connect(out, in); err != nil {
		panic(err)
	}
}

func newStringValue() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }

func buildDelay(s *core.System, enc encoding.Encoding, params map[string]string) error {
	delay := &Delay[*wrapperspb.StringValue]{}

	switch {
	case params["fixed"] != "":
		seconds, err := strconv.ParseFloat(params["fixed"], 64)
		if err != nil {
			return &StdioError{Kind: InvalidParameter, Param: "fixed"}
		}
		delay.Kind = Fixed
		delay.Duration = time.Duration(seconds * float64(time.Second))
	case params["random"] != "":
		lo, hi, err := parseRange(params["random"])
		if err != nil {
			return &StdioError{Kind: InvalidParameter, Param: "random"}
		}
		delay.Kind = Random
		delay.Min = time.Duration(lo * float64(time.Second))
		delay.Max = time.Duration(hi * float64(time.Second))
	default:
		return &StdioError{Kind: MissingParameter, Param: "fixed"}
	}

	delay.Input, delay.Output = WireStdioFilter[*wrapperspb.StringValue](s, enc, newStringValue)
	s.AddBlock(delay)
	return nil
}

func parseRange(s string) (lo, hi float64, err error) {
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return 0, 0, strconv.ErrSyntax
	}
	lo, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, err
	}
	hi, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func buildReadFile(s *core.System, _ encoding.Encoding, params map[string]string) error {
	path, err := requireParam(params, "path")
	if err != nil {
		return err
	}

	pathOut := core.Output[*wrapperspb.StringValue](s)
	pathIn := core.Input[*wrapperspb.StringValue](s)
	mustConnect(pathOut, pathIn)
	s.AddBlock(&Const[*wrapperspb.StringValue]{Output: pathOut, Value: wrapperspb.String(path)})

	bytesOut := core.Output[*wrapperspb.BytesValue](s)
	bytesIn := core.Input[*wrapperspb.BytesValue](s)
	mustConnect(bytesOut, bytesIn)
	s.AddBlock(&ReadFile{Path: pathIn, Output: bytesOut})
	s.AddBlock(&WriteStdout{Input: bytesIn})
	return nil
}
