package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TalalThabet/protoflow/blocks"
)

// NewConfigCommand builds `config`, which reports the standard block
// library this binary was built with.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "registered blocks:")
			for _, name := range blocks.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			return nil
		},
	}
}
