// Command protoflow is the Protoflow command-line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TalalThabet/protoflow/cmd/protoflow/commands"
	"github.com/TalalThabet/protoflow/internal/sysexits"
)

func main() {
	_ = godotenv.Load()

	var debug, verbose bool

	root := &cobra.Command{
		Use:           "protoflow",
		Short:         "Protoflow command-line interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug || verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debugging output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		commands.NewConfigCommand(),
		commands.NewCheckCommand(),
		commands.NewExecuteCommand(),
		commands.NewGenerateCommand(),
	)

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	sysexits.Exit(err)
}
