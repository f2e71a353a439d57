package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGenerateCommand builds `generate <path>`. Code generation from a
// system description requires the same textual system-description
// language `check` lacks; this stays a documented stub rather than
// inventing an ad hoc DSL to fill the gap.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <path>",
		Short: "Generate code from a Protoflow system (not yet implemented)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("protoflow: generate is not implemented for %q", args[0])
		},
	}
}
