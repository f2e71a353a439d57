// Package commands implements the protoflow CLI's subcommands.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TalalThabet/protoflow/blocks"
	"github.com/TalalThabet/protoflow/core"
	"github.com/TalalThabet/protoflow/encoding"
)

// NewExecuteCommand builds `execute <block> [-e text|protobuf|json] [key=value ...]`.
func NewExecuteCommand() *cobra.Command {
	var encodingFlag string

	cmd := &cobra.Command{
		Use:   "execute <block> [key=value ...]",
		Short: "Execute a Protoflow block as a stdio filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := encoding.Parse(encodingFlag)
			if err != nil {
				return err
			}
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			return Execute(args[0], enc, params)
		},
	}
	cmd.Flags().StringVarP(&encodingFlag, "encoding", "e", "text", "message encoding: text, protobuf, json")
	return cmd
}

// Execute looks up blockName in the standard library's registry, builds
// it as a stdio filter under enc/params, and runs it to completion.
func Execute(blockName string, enc encoding.Encoding, params map[string]string) error {
	entry, ok := blocks.Lookup(blockName)
	if !ok {
		return fmt.Errorf("protoflow: unknown block %q", blockName)
	}

	var buildErr error
	sys := core.Build(func(s *core.System) {
		buildErr = entry.Build(s, enc, params)
	})
	if buildErr != nil {
		return buildErr
	}

	return sys.Execute().Wait()
}

func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		idx := strings.Index(arg, "=")
		if idx < 0 {
			return nil, fmt.Errorf("protoflow: invalid key=value parameter %q", arg)
		}
		params[arg[:idx]] = arg[idx+1:]
	}
	return params, nil
}
