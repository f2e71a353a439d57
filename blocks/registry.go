// Package blocks is the standard block library: source/sink primitives,
// timing, encoding, and stdio/file boundaries, plus the name registry the
// CLI's `execute` command resolves against. The blocks runnable from the
// CLI (Delay and ReadFile) are registered by name from the init func in
// cli.go, so the CLI can look a block up by name.
package blocks

import (
	"fmt"
	"sort"
	"sync"

	"github.com/TalalThabet/protoflow/core"
	"github.com/TalalThabet/protoflow/encoding"
)

// Entry is one block registered for CLI execution.
type Entry struct {
	Name string
	// Build wires the named block's full stdio pipeline into s,
	// configuring the block from params. It returns a *StdioError for a
	// missing or malformed parameter; parameters it does not use are
	// ignored.
	Build func(s *core.System, enc encoding.Encoding, params map[string]string) error
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Entry{}
)

// Register adds e to the registry, overwriting any prior entry of the
// same name. It is called from an init func.
func Register(e Entry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[e.Name] = e
}

// Lookup returns the registered entry for name.
func Lookup(name string) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// Names returns every registered block name in sorted order, for the
// `config` command.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StdioErrorKind classifies a StdioError.
type StdioErrorKind int

const (
	// InvalidParameter means the parameter was present but could not be
	// parsed as its expected type.
	InvalidParameter StdioErrorKind = iota
	// MissingParameter means a required parameter was absent.
	MissingParameter
)

// StdioError reports a problem in the key=value parameters passed to
// `execute`. Its Error text is deliberately machine-stable — the kind
// name with Param in parentheses, e.g. "InvalidParameter(fixed)", and no
// surrounding prose — so callers can match on it or display it directly
// without reformatting.
type StdioError struct {
	Kind  StdioErrorKind
	Param string
}

func (e *StdioError) Error() string {
	switch e.Kind {
	case MissingParameter:
		return fmt.Sprintf("MissingParameter(%s)", e.Param)
	default:
		return fmt.Sprintf("InvalidParameter(%s)", e.Param)
	}
}

// requireParam fetches a required parameter or returns a MissingParameter
// StdioError.
func requireParam(params map[string]string, name string) (string, error) {
	v, ok := params[name]
	if !ok {
		return "", &StdioError{Kind: MissingParameter, Param: name}
	}
	return v, nil
}
